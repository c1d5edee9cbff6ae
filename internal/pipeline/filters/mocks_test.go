package filters

import "context"

type mockExemptionSource struct {
	exempt bool
	calls  int
}

func (m *mockExemptionSource) IsExempt(_ context.Context, _, _, _ int64) bool {
	m.calls++
	return m.exempt
}
