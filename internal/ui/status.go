package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StatusInfo contains index health information, as printed by the
// `status` verb.
type StatusInfo struct {
	ProjectName string    `json:"project_name"`
	TotalFiles  int       `json:"total_files"`
	TotalChunks int       `json:"total_chunks"`
	LastIndexed time.Time `json:"last_indexed"`

	IndexSize int64 `json:"index_size"`

	ModelFingerprint string `json:"model_fingerprint"`
	LastSyncMode     string `json:"last_sync_mode"`
	SchemaVersion    string `json:"schema_version"`
	Stale            bool   `json:"stale"`
}

// StatusRenderer displays index status.
type StatusRenderer struct {
	out     io.Writer
	styles  Styles
	noColor bool
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:     out,
		styles:  GetStyles(noColor),
		noColor: noColor,
	}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	// Header
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Index Status: "+info.ProjectName))

	// Index stats
	_, _ = fmt.Fprintf(r.out, "  Files:        %d\n", info.TotalFiles)
	_, _ = fmt.Fprintf(r.out, "  Chunks:       %d\n", info.TotalChunks)
	if !info.LastIndexed.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Last indexed: %s\n", formatTime(info.LastIndexed))
	}
	_, _ = fmt.Fprintf(r.out, "  Index size:   %s\n", FormatBytes(info.IndexSize))
	_, _ = fmt.Fprintln(r.out)

	_, _ = fmt.Fprintf(r.out, "  Model:        %s\n", info.ModelFingerprint)
	_, _ = fmt.Fprintf(r.out, "  Sync mode:    %s\n", info.LastSyncMode)
	_, _ = fmt.Fprintf(r.out, "  Schema:       v%s\n", info.SchemaVersion)
	_, _ = fmt.Fprintln(r.out)

	if info.Stale {
		_, _ = fmt.Fprintf(r.out, "  Worktree:     %s\n", r.renderStatus("stale"))
	} else {
		_, _ = fmt.Fprintf(r.out, "  Worktree:     %s\n", r.renderStatus("fresh"))
	}

	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// renderStatus formats a status string with color.
func (r *StatusRenderer) renderStatus(status string) string {
	switch status {
	case "fresh":
		return r.styles.Success.Render(status)
	case "stale":
		return r.styles.Warning.Render(status)
	case "error":
		return r.styles.Error.Render(status)
	default:
		return status
	}
}

// formatTime formats a time for display.
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
