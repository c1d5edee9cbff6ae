package pipeline

import (
	"context"
	"time"
)

type Result struct {
	IsAllowed    bool
	Exempt       bool
	Reason       string
	FilterName   string
	ShouldDelete bool
	Remaining    time.Duration
}
type Filter interface {
	Name() string
	Process(ctx context.Context, payload Payload) (*Result, error)
}
