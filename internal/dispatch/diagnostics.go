// internal/dispatch/diagnostics.go
package dispatch

import (
	"context"
	"sync"

	"rfq-dispatch-workers/internal/common/logger"
)

// Deduper records diagnostic keys. Seen reports whether the key had already
// been recorded before this call.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}

// MemoryDeduper remembers keys for the lifetime of the process.
type MemoryDeduper struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{keys: make(map[string]struct{})}
}

func (d *MemoryDeduper) Seen(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.keys[key]; ok {
		return true, nil
	}
	d.keys[key] = struct{}{}
	return false, nil
}

// Reporter logs blocked readiness results once per diagnostic key.
type Reporter struct {
	dedupe Deduper
	logger logger.Logger
}

func NewReporter(dedupe Deduper, log logger.Logger) *Reporter {
	if dedupe == nil {
		dedupe = NewMemoryDeduper()
	}
	return &Reporter{dedupe: dedupe, logger: log}
}

// Report returns true when the diagnostic was logged. Dedupe failures are
// logged and the diagnostic is emitted anyway.
func (r *Reporter) Report(ctx context.Context, destinationID string, rd Readiness) bool {
	if rd.IsReady {
		return false
	}

	key := rd.DiagnosticKey(destinationID)
	seen, err := r.dedupe.Seen(ctx, key)
	if err != nil {
		r.logger.Warn("readiness dedupe unavailable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	if seen {
		return false
	}

	fields := map[string]interface{}{
		"destinationId": destinationID,
		"mode":          rd.Mode,
		"reasons":       rd.Reasons,
	}
	if rd.RecommendedFix != nil {
		fields["recommendedFix"] = rd.RecommendedFix.Label
	}
	r.logger.Info("dispatch not ready", fields)
	return true
}
