package ui

import (
	"context"
	"time"
)

// SyncProgress adapts a Renderer to the orchestrator.Progress interface
// (FileStarted/FileDone). Progress is only reported at per-file
// boundaries — ember has no separate scan/chunk/embed stages to
// report, just one indexing pass over files.
type SyncProgress struct {
	renderer Renderer
	started  time.Time
}

// NewSyncProgress starts the renderer and returns a progress reporter
// bound to it. Callers must call Finish when the sync completes.
func NewSyncProgress(ctx context.Context, renderer Renderer) (*SyncProgress, error) {
	if err := renderer.Start(ctx); err != nil {
		return nil, err
	}
	return &SyncProgress{renderer: renderer, started: time.Now()}, nil
}

// FileStarted implements orchestrator.Progress.
func (p *SyncProgress) FileStarted(path string, index, total int) {
	p.renderer.UpdateProgress(ProgressEvent{
		Stage:       StageIndexing,
		Current:     index,
		Total:       total,
		CurrentFile: path,
	})
}

// FileDone implements orchestrator.Progress.
func (p *SyncProgress) FileDone(path string, err error) {
	if err != nil {
		p.renderer.AddError(ErrorEvent{File: path, Err: err, IsWarn: true})
	}
}

// Finish renders the completion summary and stops the renderer.
func (p *SyncProgress) Finish(files, chunks, errCount int) error {
	p.renderer.Complete(CompletionStats{
		Files:    files,
		Chunks:   chunks,
		Duration: time.Since(p.started),
		Errors:   errCount,
		Embedder: EmbedderInfo{Backend: "static", Dimensions: 768},
	})
	return p.renderer.Stop()
}
