package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emberindex/ember/internal/errs"
)

func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <N|id-prefix>",
		Short: "Open a chunk in the user's editor at its starting line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, args[0])
		},
	}
	return cmd
}

func runOpen(cmd *cobra.Command, arg string) error {
	p, err := openProject(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	chunk, err := resolveChunk(p, arg)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return errs.New(errs.EditorNotFound, "no EDITOR or VISUAL environment variable set", nil).
			WithSuggestion("Export EDITOR (or VISUAL) to your preferred editor command.")
	}

	absPath := filepath.Join(p.Root, chunk.Path)
	args := editorArgs(editor, absPath, chunk.StartLine)

	c := exec.CommandContext(cmd.Context(), editor, args...)
	c.Stdin = os.Stdin
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return errs.New(errs.EditorExecutionFailed, fmt.Sprintf("failed to launch %s", editor), err)
	}
	return nil
}

// editorArgs dispatches editor-specific line-jump syntax by the
// editor's basename. Unknown editors default to "+<line> <file>",
// which vi, vim, nvim, emacs -nw, and nano all understand.
func editorArgs(editor, path string, line int) []string {
	switch filepath.Base(editor) {
	case "code", "code-insiders":
		return []string{"--goto", fmt.Sprintf("%s:%d", path, line)}
	case "subl", "sublime_text":
		return []string{fmt.Sprintf("%s:%d", path, line)}
	case "atom":
		return []string{fmt.Sprintf("%s:%d", path, line)}
	case "idea", "webstorm", "pycharm", "goland":
		return []string{"--line", fmt.Sprintf("%d", line), path}
	default:
		return []string{fmt.Sprintf("+%d", line), path}
	}
}
