package chunk

import (
	"context"
	"strings"
)

// Options configures a Chunker's subdivision behavior.
type Options struct {
	MaxChunkTokens int // oversized-symbol subdivision threshold
	OverlapTokens  int // overlap between subdivided chunks
}

// Chunker splits one file's content into Results along AST symbol
// boundaries: tree-sitter finds function/method/class/type/const/var
// nodes at any depth of the tree (so a class and each method inside it
// each become a chunk), each becomes one chunk, and any chunk still over MaxChunkTokens
// afterward is subdivided by lines with overlap (see DESIGN.md for the
// oversized-symbol decision). Unrecognized languages, and parse
// failures, fall back to a fixed-size line window.
type Chunker struct {
	parser   *Parser
	registry *LanguageRegistry
	options  Options
}

// NewChunker creates a Chunker with default options and the default
// language registry.
func NewChunker() *Chunker {
	return NewChunkerWithOptions(Options{})
}

// NewChunkerWithOptions creates a Chunker with custom subdivision
// parameters.
func NewChunkerWithOptions(opts Options) *Chunker {
	if opts.MaxChunkTokens == 0 {
		opts.MaxChunkTokens = DefaultMaxChunkTokens
	}
	if opts.OverlapTokens == 0 {
		opts.OverlapTokens = DefaultOverlapTokens
	}
	registry := DefaultRegistry()
	return &Chunker{parser: NewParserWithRegistry(registry), registry: registry, options: opts}
}

// Close releases the underlying tree-sitter parser.
func (c *Chunker) Close() {
	c.parser.Close()
}

// SupportedExtensions lists the file extensions this chunker can parse
// with tree-sitter; anything else uses the line-window fallback.
func (c *Chunker) SupportedExtensions() []string {
	return c.registry.SupportedExtensions()
}

// Chunk splits content (the text of path, already decoded and
// language-tagged by the preprocess component) into Results.
func (c *Chunker) Chunk(ctx context.Context, path, language string, content []byte) ([]Result, error) {
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, nil
	}

	cfg, supported := c.registry.GetByName(language)
	if !supported {
		return c.chunkByLines(content), nil
	}

	tree, err := c.parser.Parse(ctx, content, language)
	if err != nil {
		return c.chunkByLines(content), nil
	}

	var results []Result
	tree.Root.Walk(func(n *Node) {
		if n == tree.Root || !symbolKind(n, cfg) {
			return
		}
		name := extractName(n, content, cfg)
		body := n.GetContent(content)
		chunk := Result{
			Content:   body,
			Symbol:    name,
			StartLine: int(n.StartPoint.Row) + 1,
			EndLine:   int(n.EndPoint.Row) + 1,
		}
		if estimateTokens(body) <= c.options.MaxChunkTokens {
			results = append(results, chunk)
			return
		}
		results = append(results, c.subdivide(chunk)...)
	})

	if len(results) == 0 {
		return c.chunkByLines(content), nil
	}
	return results, nil
}

// subdivide splits an oversized symbol chunk into overlapping
// line-window chunks, keeping the parent's Symbol name on every piece
// so `ember find` results still attribute to the enclosing symbol.
func (c *Chunker) subdivide(parent Result) []Result {
	lines := strings.Split(parent.Content, "\n")
	linesPerChunk := (c.options.MaxChunkTokens * TokensPerChar) / 80
	if linesPerChunk < 20 {
		linesPerChunk = 20
	}
	overlap := (c.options.OverlapTokens * TokensPerChar) / 80
	if overlap < 2 {
		overlap = 2
	}

	var out []Result
	for i := 0; i < len(lines); {
		end := i + linesPerChunk
		if end > len(lines) {
			end = len(lines)
		}
		out = append(out, Result{
			Content:   strings.Join(lines[i:end], "\n"),
			Symbol:    parent.Symbol,
			StartLine: parent.StartLine + i,
			EndLine:   parent.StartLine + end - 1,
		})
		if end >= len(lines) {
			break
		}
		i = end - overlap
		if i <= 0 {
			i = end
		}
	}
	return out
}

// chunkByLines is the fallback for unsupported languages and parse
// failures: a fixed-size sliding window over the raw lines.
func (c *Chunker) chunkByLines(content []byte) []Result {
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	const linesPerChunk = 128
	const overlapLines = 16

	var out []Result
	for i := 0; i < len(lines); {
		end := i + linesPerChunk
		if end > len(lines) {
			end = len(lines)
		}
		out = append(out, Result{
			Content:   strings.Join(lines[i:end], "\n"),
			StartLine: i + 1,
			EndLine:   end,
		})
		if end >= len(lines) {
			break
		}
		i = end - overlapLines
		if i <= 0 {
			i = end
		}
	}
	return out
}

func estimateTokens(content string) int {
	return len(content) / TokensPerChar
}
