package calendar

import (
	"fmt"
	"slices"

	"github.com/guilherme-santos/calmeetings/internal"
)

// Mux maps a provider key to its implementation. It is built once and never
// modified afterwards, so it can be shared without locking.
type Mux struct {
	providers map[internal.ProviderKey]internal.Provider
}

func NewMux(providers ...internal.Provider) (*Mux, error) {
	m := &Mux{
		providers: make(map[internal.ProviderKey]internal.Provider, len(providers)),
	}
	for _, p := range providers {
		key := p.Schema().Key
		if key == "" {
			return nil, fmt.Errorf("calendar: provider %T has no key", p)
		}
		if _, ok := m.providers[key]; ok {
			return nil, fmt.Errorf("calendar: provider %q registered twice", key)
		}
		m.providers[key] = p
	}
	return m, nil
}

func (m *Mux) Get(key internal.ProviderKey) (internal.Provider, error) {
	p, ok := m.providers[key]
	if !ok {
		return nil, &internal.UnsupportedProviderError{Provider: key}
	}
	return p, nil
}

func (m *Mux) Schema(key internal.ProviderKey) (internal.Schema, error) {
	p, err := m.Get(key)
	if err != nil {
		return internal.Schema{}, err
	}
	return p.Schema(), nil
}

func (m *Mux) Keys() []internal.ProviderKey {
	keys := make([]internal.ProviderKey, 0, len(m.providers))
	for k := range m.providers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
