package render

import (
	"context"
	"sync"
)

// Driver adapts the pipeline to the selection widget's synchronous
// preview callback. Invocations run one at a time; highlighting a new
// line cancels the previous invocation so its spinner stops drawing,
// while any in-flight fetch may still finish and warm the cache.
type Driver struct {
	pipeline *Pipeline
	base     context.Context

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDriver wraps a pipeline; base bounds the lifetime of all previews
func NewDriver(base context.Context, pipeline *Pipeline) *Driver {
	return &Driver{pipeline: pipeline, base: base}
}

// Show requests a preview for line. Returns immediately; the render
// happens in the background after the superseded invocation winds down.
func (d *Driver) Show(line string) {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	prev := d.done
	ctx, cancel := context.WithCancel(d.base)
	d.cancel = cancel
	done := make(chan struct{})
	d.done = done
	d.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if ctx.Err() != nil {
			return
		}
		// Per-invocation errors are shown in the region and logged
		// inside the pipeline; nothing to do with them here
		_ = d.pipeline.Render(ctx, line)
	}()
}

// Stop cancels the active invocation and waits for it to finish
func (d *Driver) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	done := d.done
	d.mu.Unlock()
	if done != nil {
		<-done
	}
}
