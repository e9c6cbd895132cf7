package batches

// Effect is a cash or timestamp side effect of a status transition.
type Effect int

const (
	// EffectDebitCommitment deducts the commitment from the company's
	// USD balance, computed from the batch values after the update.
	EffectDebitCommitment Effect = iota + 1

	// EffectRefundCommitment returns the commitment computed from the
	// batch values before the update.
	EffectRefundCommitment

	// EffectStampArrival sets ArrivedDate to the current time.
	EffectStampArrival
)

type transition struct {
	from, to Status
}

// transitionEffects enumerates every status pair that carries side
// effects. Pairs not listed, including every unchanged status, have none.
var transitionEffects = map[transition][]Effect{
	// Entering ordered commits cash. Arrived is already committed, so
	// moving back to ordered releases the old amount first; the pair nets
	// to zero when cost and quantity are unchanged.
	{StatusToOrder, StatusOrdered}: {EffectDebitCommitment},
	{StatusArrived, StatusOrdered}: {EffectRefundCommitment, EffectDebitCommitment},
	{StatusSold, StatusOrdered}:    {EffectDebitCommitment},

	// Entering arrived stamps the arrival date. Cash committed while
	// ordered stays committed.
	{StatusToOrder, StatusArrived}: {EffectStampArrival},
	{StatusOrdered, StatusArrived}: {EffectStampArrival},
	{StatusSold, StatusArrived}:    {EffectStampArrival},

	// Rolling back to to_order releases the commitment.
	{StatusOrdered, StatusToOrder}: {EffectRefundCommitment},
	{StatusArrived, StatusToOrder}: {EffectRefundCommitment},

	// Selling keeps the purchase cost spent: no cash movement.
	{StatusOrdered, StatusSold}: {},
	{StatusArrived, StatusSold}: {},
	{StatusToOrder, StatusSold}: {},
}

// effectsFor returns the side effects of moving from one status to
// another. An unchanged status never has effects.
func effectsFor(from, to Status) []Effect {
	if from == to {
		return nil
	}
	return transitionEffects[transition{from, to}]
}
