// internal/dispatch/adapter.go
package dispatch

import (
	"errors"
	"fmt"

	"rfq-dispatch-workers/internal/models"
)

var ErrNoAdapter = errors.New("no adapter for dispatch mode")

// BuildArgs is the bundle every adapter renders from.
type BuildArgs struct {
	RFQ           models.RFQ               `json:"rfq"`
	Provider      models.ProviderRecord    `json:"provider"`
	Destination   models.DestinationRecord `json:"destination"`
	Customer      models.Customer          `json:"customer"`
	Files         []models.FileLink        `json:"files"`
	SubmissionURL string                   `json:"submissionUrl"`
}

type Adapter interface {
	Mode() models.DispatchMode
	Supports(p models.ProviderRecord) bool
	BuildOutbound(args BuildArgs) (models.OutboundDispatch, error)
}

// Registry is the ordered list of adapters. Order is dispatch priority.
type Registry struct {
	adapters []Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// DefaultRegistry holds the shipped channels. The API adapter is reserved
// and has to be registered explicitly.
func DefaultRegistry() *Registry {
	return NewRegistry(EmailAdapter{}, WebFormAdapter{})
}

func (r *Registry) Adapters() []Adapter {
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// Resolve returns the first adapter that supports the provider.
func (r *Registry) Resolve(p models.ProviderRecord) (Adapter, bool) {
	for _, a := range r.adapters {
		if a.Supports(p) {
			return a, true
		}
	}
	return nil, false
}

func (r *Registry) ForMode(mode string) (Adapter, bool) {
	m, ok := ParseMode(mode)
	if !ok {
		return nil, false
	}
	for _, a := range r.adapters {
		if a.Mode() == m {
			return a, true
		}
	}
	return nil, false
}

// Build resolves the destination's effective mode and renders it with the
// matching adapter.
func (r *Registry) Build(args BuildArgs) (models.OutboundDispatch, error) {
	mode := EffectiveMode(args.Destination, args.Provider)
	a, ok := r.ForMode(mode)
	if !ok {
		return models.OutboundDispatch{}, fmt.Errorf("%w: %q", ErrNoAdapter, mode)
	}
	return a.BuildOutbound(args)
}

func supportsMode(p models.ProviderRecord, mode models.DispatchMode) bool {
	m, ok := ResolveMode(p)
	return ok && m == mode
}
