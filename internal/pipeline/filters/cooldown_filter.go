package filters

import (
	"context"

	"github.com/PouyaEvan/topic-limiter/internal/cooldown"
	"github.com/PouyaEvan/topic-limiter/internal/messages"
	"github.com/PouyaEvan/topic-limiter/internal/pipeline"
	"github.com/PouyaEvan/topic-limiter/internal/repository"
)

// CooldownFilter rejects messages from users still inside their
// window. It only reads state; recording happens after admission.
type CooldownFilter struct {
	records repository.RecordRepository
	eval    *cooldown.Evaluator
}

func NewCooldownFilter(records repository.RecordRepository, eval *cooldown.Evaluator) *CooldownFilter {
	return &CooldownFilter{
		records: records,
		eval:    eval,
	}
}

func (f *CooldownFilter) Name() string {
	return "cooldown_filter"
}

func (f *CooldownFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	// A store error means the table healed to empty; moderation
	// proceeds on whatever survived.
	records, _ := f.records.All()

	ok, remaining := f.eval.CanSend(payload.ChatID, payload.UserID, records)
	if !ok {
		return &pipeline.Result{
			IsAllowed:    false,
			Reason:       messages.MsgReasonCooldown,
			FilterName:   f.Name(),
			ShouldDelete: true,
			Remaining:    remaining,
		}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
