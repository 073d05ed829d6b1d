package inference

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownModel is returned by Lookup when no model of the requested
// variant is registered under the name.
var ErrUnknownModel = errors.New("unknown model requested")

// Registry maps model names to loaded models. It is built once at start-up
// and never mutated.
type Registry struct {
	models map[string]Model
}

// NewRegistry rejects duplicate names.
func NewRegistry(models ...Model) (*Registry, error) {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		if _, ok := r.models[m.Name()]; ok {
			return nil, fmt.Errorf("model %q registered twice", m.Name())
		}
		r.models[m.Name()] = m
	}
	return r, nil
}

// Lookup returns the model registered under name. A model registered under a
// different variant is reported as unknown.
func (r *Registry) Lookup(name string, variant Variant) (Model, error) {
	m, ok := r.models[name]
	if !ok || m.Variant() != variant {
		return nil, ErrUnknownModel
	}
	return m, nil
}

// LookupCAM is Lookup for models that expose classifier weights.
func (r *Registry) LookupCAM(name string) (CAMModel, error) {
	m, err := r.Lookup(name, VariantPneumoniaCAM)
	if err != nil {
		return nil, err
	}
	cm, ok := m.(CAMModel)
	if !ok {
		return nil, ErrUnknownModel
	}
	return cm, nil
}

// First returns the lexically first model of the variant.
func (r *Registry) First(variant Variant) (Model, error) {
	for _, name := range r.Names() {
		if m := r.models[name]; m.Variant() == variant {
			return m, nil
		}
	}
	return nil, ErrUnknownModel
}

// Names lists registered model names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases every model that holds native resources.
func (r *Registry) Close() error {
	var errs []error
	for _, m := range r.models {
		if c, ok := m.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
