package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emberindex/ember/internal/output"
)

func newCatCmd() *cobra.Command {
	var context int
	var meta bool

	cmd := &cobra.Command{
		Use:   "cat <N|id-prefix>",
		Short: "Print a chunk's content from the last search or by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, args[0], context, meta)
		},
	}

	cmd.Flags().IntVar(&context, "context", 0, "Lines of surrounding file content to print")
	cmd.Flags().BoolVar(&meta, "meta", false, "Print chunk metadata as YAML instead of its content")
	return cmd
}

// chunkMeta is the human-facing YAML rendering of a chunk's identity,
// used by `cat --meta`. The content itself stays plain text: only the
// structured fields around it benefit from a key/value rendering.
type chunkMeta struct {
	ID        string `yaml:"id"`
	Path      string `yaml:"path"`
	Lang      string `yaml:"lang"`
	Symbol    string `yaml:"symbol,omitempty"`
	StartLine int    `yaml:"start_line"`
	EndLine   int    `yaml:"end_line"`
}

func runCat(cmd *cobra.Command, arg string, context int, meta bool) error {
	p, err := openProject(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	chunk, err := resolveChunk(p, arg)
	if err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())

	if meta {
		data, err := yaml.Marshal(chunkMeta{
			ID: chunk.ID, Path: chunk.Path, Lang: chunk.Lang, Symbol: chunk.Symbol,
			StartLine: chunk.StartLine, EndLine: chunk.EndLine,
		})
		if err != nil {
			return err
		}
		out.Code(string(data))
		return nil
	}

	out.Statusf("", "%s:%d-%d  %s", chunk.Path, chunk.StartLine, chunk.EndLine, chunk.ID[:12])
	if context > 0 {
		out.Code(snippetWithContext(chunk.Content, context))
	} else {
		out.Code(chunk.Content)
	}
	return nil
}
