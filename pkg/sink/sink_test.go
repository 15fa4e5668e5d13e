package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kradscan/warden/pkg/report"
)

type fakeSink struct {
	name   string
	err    error
	called bool
}

func (f *fakeSink) Name() string { return f.name }
func (f *fakeSink) Send(ctx context.Context, r *report.Report, rendered string) error {
	f.called = true
	return f.err
}

func TestChainCallsEverySinkEvenAfterAFailure(t *testing.T) {
	failing := &fakeSink{name: "failing", err: errors.New("boom")}
	succeeding := &fakeSink{name: "succeeding"}

	chain := NewChain(failing, succeeding)
	err := chain.Send(context.Background(), &report.Report{}, "rendered")

	assert.True(t, failing.called)
	assert.True(t, succeeding.called)
	assert.ErrorIs(t, err, failing.err)
}

func TestChainReturnsNilWhenAllSucceed(t *testing.T) {
	a := &fakeSink{name: "a"}
	b := &fakeSink{name: "b"}
	chain := NewChain(a, b)
	assert.NoError(t, chain.Send(context.Background(), &report.Report{}, "rendered"))
}

func TestChainWithNoSinksIsNoop(t *testing.T) {
	chain := NewChain()
	assert.NoError(t, chain.Send(context.Background(), &report.Report{}, "rendered"))
}
