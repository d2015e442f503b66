package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberindex/ember/internal/cache"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/orchestrator"
	"github.com/emberindex/ember/internal/output"
	"github.com/emberindex/ember/internal/search"
)

func newFindCmd() *cobra.Command {
	var (
		topK       int
		in         string
		lang       string
		jsonOutput bool
		noSync     bool
		context    int
	)

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Run a hybrid text and semantic search over the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, strings.Join(args, " "), topK, in, lang, jsonOutput, noSync, context)
		},
	}

	cmd.Flags().IntVar(&topK, "topk", 0, "Maximum number of results (0 uses the configured default)")
	cmd.Flags().StringVar(&in, "in", "", "Restrict results to paths matching this glob")
	cmd.Flags().StringVar(&lang, "lang", "", "Restrict results to this language code")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Skip the pre-search freshness check")
	cmd.Flags().IntVar(&context, "context", 0, "Lines of surrounding file content to print per result")

	return cmd
}

func runFind(cmd *cobra.Command, query string, topK int, in, lang string, jsonOutput, noSync bool, context int) error {
	p, err := openProject(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	out := output.New(cmd.OutOrStdout())

	if !noSync {
		gate := p.newGate()
		outcome := gate.EnsureFresh(cmd.Context(), orchestrator.Request{RepoRoot: p.Root, SyncMode: model.SyncModeWorktree})
		if outcome.Warning != "" {
			out.Warning(outcome.Warning)
		}
	}

	if topK == 0 {
		topK = p.Config.Search.TopK
	}

	q := model.Query{Text: query, TopK: topK, PathFilter: in, LangFilter: lang}
	engine := search.New(p.Store, p.Embedder)

	results, err := engine.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	if _, err := cache.Save(p.IndexDir, q, results); err != nil {
		out.Warning(fmt.Sprintf("could not save search cache: %v", err))
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	renderFindResults(out, results, context)
	return nil
}

func renderFindResults(out *output.Writer, results []*model.SearchResult, context int) {
	if len(results) == 0 {
		out.Status("", "No results.")
		return
	}
	for _, r := range results {
		out.Statusf("", "[%d] %s:%d-%d  (%.3f)  %s", r.Rank, r.Chunk.Path, r.Chunk.StartLine, r.Chunk.EndLine, r.Score, r.Chunk.ID[:12])
		if r.Preview != "" {
			out.Code(r.Preview)
		}
		if context > 0 {
			out.Code(snippetWithContext(r.Chunk.Content, context))
		}
		out.Newline()
	}
}

func snippetWithContext(content string, context int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= context*2 {
		return content
	}
	return strings.Join(lines[:context], "\n") + "\n...\n" + strings.Join(lines[len(lines)-context:], "\n")
}
