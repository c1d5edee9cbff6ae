package pipeline

import "context"

type Manager struct {
	filters []Filter
}

func NewManager(filters ...Filter) *Manager {
	return &Manager{filters: filters}
}

// Process runs the filters in order and stops at the first decisive
// result: a rejection, or an exemption that admits without recording.
func (m *Manager) Process(ctx context.Context, payload Payload) (*Result, error) {
	for _, f := range m.filters {
		res, err := f.Process(ctx, payload)
		if err != nil {
			return nil, err
		}
		if !res.IsAllowed || res.Exempt {
			return res, nil
		}
	}
	return &Result{IsAllowed: true}, nil
}
