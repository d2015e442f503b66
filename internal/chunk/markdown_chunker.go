package chunk

import (
	"context"
	"regexp"
	"strings"
)

// MarkdownChunker implements header-based Markdown chunking: each
// section (a # header line and the text following it, up to the next
// header of any level) becomes a chunk, with the header path set as
// its Symbol; sections too large are split by paragraph.
type MarkdownChunker struct {
	options Options
}

var (
	headerPattern       = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	frontmatterPattern  = regexp.MustCompile(`(?s)^---\n(.+?)\n---\n*`)
)

// NewMarkdownChunker creates a MarkdownChunker with default options.
func NewMarkdownChunker() *MarkdownChunker {
	return NewMarkdownChunkerWithOptions(Options{})
}

// NewMarkdownChunkerWithOptions creates a MarkdownChunker with custom
// subdivision parameters.
func NewMarkdownChunkerWithOptions(opts Options) *MarkdownChunker {
	if opts.MaxChunkTokens == 0 {
		opts.MaxChunkTokens = DefaultMaxChunkTokens
	}
	return &MarkdownChunker{options: opts}
}

// SupportedExtensions lists the markdown-family extensions this
// chunker handles.
func (c *MarkdownChunker) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".mdx"}
}

// Chunk splits markdown content into header-scoped sections.
func (c *MarkdownChunker) Chunk(_ context.Context, content []byte) []Result {
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var results []Result
	remaining := text
	lineOffset := 0

	if m := frontmatterPattern.FindString(remaining); m != "" {
		lines := strings.Count(m, "\n")
		results = append(results, Result{Content: strings.TrimRight(m, "\n"), Symbol: "frontmatter", StartLine: 1, EndLine: lines})
		remaining = remaining[len(m):]
		lineOffset = lines
	}

	sections := parseSections(remaining)
	if len(sections) == 0 {
		return append(results, c.chunkByParagraphs(remaining, "", lineOffset+1)...)
	}

	for _, sec := range sections {
		results = append(results, c.chunkSection(sec, lineOffset)...)
	}
	return results
}

type mdSection struct {
	headerPath string
	content    string
	startLine  int // 0-indexed within remaining content
}

func parseSections(content string) []*mdSection {
	lines := strings.Split(content, "\n")
	var sections []*mdSection
	headerStack := make([]string, 6)

	var current *mdSection
	var body strings.Builder

	flush := func() {
		if current != nil {
			current.content = body.String()
			sections = append(sections, current)
			body.Reset()
		}
	}

	for lineNum, line := range lines {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			flush()
			level := len(m[1])
			title := strings.TrimSpace(m[2])
			headerStack[level-1] = title
			for i := level; i < 6; i++ {
				headerStack[i] = ""
			}
			var parts []string
			for i := 0; i < level; i++ {
				if headerStack[i] != "" {
					parts = append(parts, headerStack[i])
				}
			}
			current = &mdSection{headerPath: strings.Join(parts, " > "), startLine: lineNum}
			body.WriteString(line + "\n")
			continue
		}
		body.WriteString(line + "\n")
	}
	flush()
	return sections
}

func (c *MarkdownChunker) chunkSection(sec *mdSection, lineOffset int) []Result {
	content := strings.TrimRight(sec.content, "\n")
	startLine := lineOffset + sec.startLine + 1

	if estimateTokens(content) <= c.options.MaxChunkTokens {
		return []Result{{
			Content:   content,
			Symbol:    sec.headerPath,
			StartLine: startLine,
			EndLine:   startLine + strings.Count(content, "\n"),
		}}
	}
	return c.chunkByParagraphs(content, sec.headerPath, startLine)
}

// chunkByParagraphs splits content (already scoped to one section, or
// the whole file if it had no headers) by blank-line-separated
// paragraphs, packing them up to MaxChunkTokens per chunk.
func (c *MarkdownChunker) chunkByParagraphs(content, headerPath string, startLine int) []Result {
	paragraphs := strings.Split(content, "\n\n")

	var results []Result
	var current strings.Builder
	currentStart := startLine
	lineCount := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		results = append(results, Result{
			Content:   strings.TrimRight(current.String(), "\n"),
			Symbol:    headerPath,
			StartLine: currentStart,
			EndLine:   currentStart + lineCount,
		})
		current.Reset()
		currentStart = startLine + lineCount
		lineCount = 0
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		paraLines := strings.Count(para, "\n") + 1
		if current.Len() > 0 && estimateTokens(current.String())+estimateTokens(para) > c.options.MaxChunkTokens {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		lineCount += paraLines + 1
	}
	flush()
	return results
}
