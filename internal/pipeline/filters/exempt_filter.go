package filters

import (
	"context"

	"github.com/PouyaEvan/topic-limiter/internal/pipeline"
)

// ExemptionSource reports whether a sender bypasses moderation.
type ExemptionSource interface {
	IsExempt(ctx context.Context, chatID, userID, senderChatID int64) bool
}

// ExemptFilter admits admins and custom admins without recording: an
// exempt result stops the chain before the cooldown check runs.
type ExemptFilter struct {
	source ExemptionSource
}

func NewExemptFilter(source ExemptionSource) *ExemptFilter {
	return &ExemptFilter{source: source}
}

func (f *ExemptFilter) Name() string {
	return "exempt_filter"
}

func (f *ExemptFilter) Process(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if f.source.IsExempt(ctx, payload.ChatID, payload.UserID, payload.SenderChatID) {
		return &pipeline.Result{
			IsAllowed:  true,
			Exempt:     true,
			FilterName: f.Name(),
		}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
