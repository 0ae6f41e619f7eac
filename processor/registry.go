package processor

import (
	"fmt"
	"sync"

	"github.com/uniauth/saml-idp-core/model"
)

// Registry resolves the processor reference stored on an SP entry to the
// registered strategy. Population happens at process start from static
// configuration, resolution at validation and release time.
type Registry struct {
	lock       sync.RWMutex
	processors map[string]Processor
}

func NewRegistry() *Registry {
	registry := Registry{processors: map[string]Processor{}}
	registry.Register(model.DefaultProcessor, BaseProcessor{})
	return &registry
}

func (r *Registry) Register(name string, processor Processor) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.processors[name] = processor
}

func (r *Registry) Resolve(name string) (Processor, *model.ValidationError) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	processor, ok := r.processors[name]
	if !ok {
		return nil, &model.ValidationError{Kind: model.ErrorUnknownProcessor, Message: fmt.Sprintf("No processor %s is registered.", name)}
	}
	return processor, nil
}
