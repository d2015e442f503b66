package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emberindex/ember/internal/output"
	"github.com/emberindex/ember/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var jsonOutput bool
	var verify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report index health: file/chunk counts, staleness, and config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOutput, verify)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print status as JSON")
	cmd.Flags().BoolVar(&verify, "verify", false, "Also check the chunk table against the vector graph for drift")
	return cmd
}

func runStatus(cmd *cobra.Command, jsonOutput, verify bool) error {
	p, err := openProject(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	totalFiles, err := p.Store.CountUniqueFiles()
	if err != nil {
		return err
	}
	totalChunks, err := p.Store.CountChunks()
	if err != nil {
		return err
	}

	stat, err := os.Stat(p.Store.Path())
	var indexSize int64
	if err == nil {
		indexSize = stat.Size()
	}

	rs, err := readStateFile(p.IndexDir)
	if err != nil {
		rs.ModelFingerprint = p.Embedder.Fingerprint()
	}

	stale, err := p.newGate().IsStale()
	if err != nil {
		stale = false
	}

	info := ui.StatusInfo{
		ProjectName:      p.Root,
		TotalFiles:       totalFiles,
		TotalChunks:      totalChunks,
		LastIndexed:      rs.IndexedAt,
		IndexSize:        indexSize,
		ModelFingerprint: rs.ModelFingerprint,
		LastSyncMode:     rs.LastSyncMode,
		SchemaVersion:    strconv.Itoa(rs.Version),
		Stale:            stale,
	}

	renderer := ui.NewStatusRenderer(cmd.OutOrStdout(), false)
	if jsonOutput {
		if err := renderer.RenderJSON(info); err != nil {
			return err
		}
	} else if err := renderer.Render(info); err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	if verify {
		return runVerify(cmd, p)
	}
	return nil
}

func runVerify(cmd *cobra.Command, p *project) error {
	out := output.New(cmd.OutOrStdout())

	result, err := p.Store.Verify()
	if err != nil {
		return err
	}
	if len(result.Inconsistencies) == 0 {
		out.Successf("Verified %d chunks: chunk table and vector graph agree.", result.ChunksChecked)
		return nil
	}
	out.Warningf("Verified %d chunks: found %d inconsistencies.", result.ChunksChecked, len(result.Inconsistencies))
	for _, issue := range result.Inconsistencies {
		out.Statusf("", "  %s: %s", issue.Kind, issue.ChunkID[:12])
	}
	return nil
}
