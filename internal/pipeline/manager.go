package pipeline

import (
	"context"
	"errors"
	"fmt"
)

type Manager struct {
	detectors []Detector
}

func NewManager(detectors ...Detector) *Manager {
	return &Manager{detectors: detectors}
}

// Process runs the detectors in their fixed order and returns the first
// violation fired, or nil when the event is clean. A failing detector never
// stops the ones after it; their errors are joined and returned alongside
// whatever violation was found.
func (m *Manager) Process(ctx context.Context, payload Payload) (*Violation, error) {
	var errs []error
	for _, d := range m.detectors {
		v, err := d.Inspect(ctx, payload)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		if v != nil {
			return v, errors.Join(errs...)
		}
	}
	return nil, errors.Join(errs...)
}
