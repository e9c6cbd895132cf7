package batches

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectsFor(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want []Effect
	}{
		{"order commits", StatusToOrder, StatusOrdered, []Effect{EffectDebitCommitment}},
		{"rollback refunds", StatusOrdered, StatusToOrder, []Effect{EffectRefundCommitment}},
		{"arrival stamps", StatusOrdered, StatusArrived, []Effect{EffectStampArrival}},
		{"direct arrival stamps", StatusToOrder, StatusArrived, []Effect{EffectStampArrival}},
		{"arrived rollback refunds", StatusArrived, StatusToOrder, []Effect{EffectRefundCommitment}},
		{"reorder from arrived nets out", StatusArrived, StatusOrdered, []Effect{EffectRefundCommitment, EffectDebitCommitment}},
		{"sale keeps cash spent", StatusArrived, StatusSold, []Effect{}},
		{"sale from ordered keeps cash spent", StatusOrdered, StatusSold, []Effect{}},
		{"reorder from sold commits", StatusSold, StatusOrdered, []Effect{EffectDebitCommitment}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, effectsFor(tt.from, tt.to))
		})
	}
}

func TestEffectsForUnchangedStatus(t *testing.T) {
	for _, s := range []Status{StatusToOrder, StatusOrdered, StatusArrived, StatusSold} {
		assert.Empty(t, effectsFor(s, s), "unchanged %s must be a no-op", s)
	}
}

func TestStatusIsCommitted(t *testing.T) {
	assert.False(t, StatusToOrder.IsCommitted())
	assert.True(t, StatusOrdered.IsCommitted())
	assert.True(t, StatusArrived.IsCommitted())
	assert.False(t, StatusSold.IsCommitted())
}
