package obcore

// STPPolicy selects what happens when an incoming order would match
// against a resting order from the same owner. spec.md §9 fixes "skip
// self" as the canonical policy but flags the others as a plausible
// configuration axis; this module makes that axis explicit rather than
// leaving it as prose.
type STPPolicy int

const (
	// STPSkip steps the aggressor over its own resting liquidity without
	// matching against it; the resting order is left untouched. This is
	// spec.md's canonical "cancel-new" semantics despite the name — the
	// aggressor's crossing attempt against that one resting order is
	// dropped, not the whole incoming order.
	STPSkip STPPolicy = iota
	// STPCancelOldest removes the resting (maker) order instead of
	// matching, and the aggressor continues walking the level.
	STPCancelOldest
	// STPCancelNewest removes the incoming (taker) order's remaining
	// quantity instead of matching — the aggressor stops there, nothing
	// further in the batch is attempted for it.
	STPCancelNewest
	// STPCancelBoth removes both the resting order and the remainder of
	// the incoming order the instant a self-trade would occur.
	STPCancelBoth
)

// Option configures a Evaluator at construction.
type Option func(*Evaluator)

// WithSTPPolicy overrides the default self-trade-prevention policy
// (STPSkip).
func WithSTPPolicy(p STPPolicy) Option {
	return func(e *Evaluator) { e.stp = p }
}

// WithStartSequence overrides the Evaluator's starting sequence counter.
// NewEvaluator already bootstraps this from the Book passed to it; this
// option is for callers reconstructing an Evaluator without a live Book
// (e.g. replaying a journal into a fresh one at a known offset).
func WithStartSequence(seq uint64) Option {
	return func(e *Evaluator) { e.seq = seq }
}
