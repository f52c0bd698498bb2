package obcore

import (
	"github.com/itsstevenwal/obcore/errs"
)

// Result is everything Eval produces for one batch: the trade tape, the
// Instruction sequence the caller must hand to Apply unmodified and in
// order, and any per-Op errors (which do not prevent the remaining Ops in
// the batch from being evaluated).
type Result struct {
	Matches      []Match
	Instructions []Instruction
	Errors       []*errs.OpError
}

func (r *Result) fail(opIndex int, err error) {
	r.Errors = append(r.Errors, &errs.OpError{Index: opIndex, Err: err})
}

// Evaluator is the pure matching engine: given a Book and a batch of Ops,
// it computes what should happen without mutating the Book. Construct one
// per Book with NewEvaluator; it is not safe for concurrent use (spec.md
// §5 — the engine is single-threaded by design, callers shard by
// instrument for parallelism).
type Evaluator struct {
	stp STPPolicy
	seq uint64
}

// NewEvaluator returns an Evaluator whose sequence counter starts at
// book's current high-water mark, so sequence numbers it assigns never
// collide with ones already recorded in book's history.
func NewEvaluator(book *Book, opts ...Option) *Evaluator {
	e := &Evaluator{stp: STPSkip, seq: book.Sequence()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// Eval evaluates ops against book's current state in order, without
// mutating book. Later Ops in the same batch observe the effects of
// earlier ones via an internal overlay (spec.md §4.3). The returned
// Result's Instructions must be passed to Apply, in order and unmodified,
// for the Book to actually reflect this Result.
func (e *Evaluator) Eval(book *Book, ops []Op) Result {
	ov := newOverlay(book)
	var res Result
	for i, op := range ops {
		switch op.Kind {
		case OpInsert:
			e.evalInsert(ov, op.Order, false, &res, i)
		case OpMarket:
			e.evalInsert(ov, op.Order, true, &res, i)
		case OpCancel:
			e.evalCancel(ov, op.ID, &res, i)
		case OpAmend:
			e.evalAmend(book, ov, op, &res, i)
		default:
			res.fail(i, errs.ErrInvalidSide)
		}
	}
	return res
}

// crosses reports whether an aggressor on side, priced at orderPrice,
// reaches a resting level priced at levelPrice. Buys cross levels at or
// below their price; sells cross levels at or above theirs.
func crosses(side Side, orderPrice, levelPrice Price) bool {
	if side == Buy {
		return levelPrice <= orderPrice
	}
	return levelPrice >= orderPrice
}

func minQuantity(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}

// evalInsert plans the matching for a fresh incoming order: Insert walks
// crossable levels only; Market walks all liquidity on the opposite side
// regardless of price and never rests its residual (spec.md §4.1/§4.4).
// Amend path 2 also calls this, for the re-insertion half of its
// cancel-then-insert semantics, with market=false.
func (e *Evaluator) evalInsert(ov *overlay, order Order, market bool, res *Result, opIndex int) {
	if order == nil {
		res.fail(opIndex, errs.ErrUnknownOrder)
		return
	}
	if ov.effRemaining(order) == 0 {
		res.fail(opIndex, errs.ErrZeroQuantity)
		return
	}

	side := order.Side()
	oppSide := side.Opposite()
	orderPrice := ov.effPrice(order)
	discardRemainder := false

priceLoop:
	for _, price := range ov.pricesOnSide(oppSide) {
		if !market && !crosses(side, orderPrice, price) {
			break priceLoop
		}
		for _, maker := range ov.restingAt(oppSide, price) {
			if ov.effRemaining(order) == 0 {
				break priceLoop
			}
			makerRemaining := ov.effRemaining(maker)
			if makerRemaining == 0 {
				continue
			}

			if maker.Owner() == order.Owner() {
				switch e.stp {
				case STPSkip:
					continue
				case STPCancelOldest:
					res.Instructions = append(res.Instructions, remove(maker.ID()))
					ov.markRemoved(maker.ID())
					continue
				case STPCancelNewest:
					discardRemainder = true
					break priceLoop
				case STPCancelBoth:
					res.Instructions = append(res.Instructions, remove(maker.ID()))
					ov.markRemoved(maker.ID())
					discardRemainder = true
					break priceLoop
				}
			}

			tradeQty := minQuantity(ov.effRemaining(order), makerRemaining)
			res.Matches = append(res.Matches, Match{
				MakerID:   maker.ID(),
				TakerID:   order.ID(),
				Price:     price,
				Quantity:  tradeQty,
				MakerSide: oppSide,
			})
			res.Instructions = append(res.Instructions, fill(maker, tradeQty))
			res.Instructions = append(res.Instructions, fill(order, tradeQty))
			ov.markFilled(maker.ID(), tradeQty)
			ov.markFilled(order.ID(), tradeQty)

			if ov.effRemaining(maker) == 0 {
				// A fill that exhausts a resting order implies its removal
				// (spec.md §4.2); Apply detaches it itself when InstrFill
				// leaves Remaining at zero, so no separate InstrRemove is
				// planned here — emitting one too would have Apply try to
				// detach an already-detached entry.
				ov.markRemoved(maker.ID())
			}
		}
	}

	if discardRemainder || market {
		return
	}
	if ov.effRemaining(order) > 0 {
		seq := e.nextSeq()
		res.Instructions = append(res.Instructions, addResting(order, side, orderPrice, seq))
		ov.addPending(side, orderPrice, seq, order)
	}
}

func (e *Evaluator) evalCancel(ov *overlay, id OrderID, res *Result, opIndex int) {
	if _, _, ok := ov.locate(id); !ok {
		res.fail(opIndex, errs.ErrUnknownOrder)
		return
	}
	res.Instructions = append(res.Instructions, remove(id))
	ov.markRemoved(id)
}

// resolveOrder returns the live Order value backing id, whether it is
// sitting in the Book already or only pending from earlier in this same
// batch.
func (e *Evaluator) resolveOrder(book *Book, ov *overlay, id OrderID) (Order, bool) {
	if key, ok := ov.pendingLoc[id]; ok {
		for _, p := range ov.pending[key] {
			if p.order.ID() == id {
				return p.order, true
			}
		}
	}
	loc, ok := book.indexLocation(id)
	if !ok {
		return nil, false
	}
	lvl := book.levelAt(loc.side, loc.price)
	if lvl == nil {
		return nil, false
	}
	return lvl.orderAt(loc.seq)
}

// evalAmend plans an Amend, choosing between its two paths (spec.md
// §4.5): a quantity-only decrease is applied in place and keeps the
// order's queue position; a price change or a quantity increase is
// planned as Cancel(id) followed by re-running evalInsert against the
// same order value (now carrying the amend's new price/quantity via the
// overlay's override, so matching and final resting reflect the amended
// terms), which loses queue position like any fresh arrival.
func (e *Evaluator) evalAmend(book *Book, ov *overlay, op Op, res *Result, opIndex int) {
	order, ok := e.resolveOrder(book, ov, op.ID)
	if !ok || ov.isRemoved(op.ID) {
		res.fail(opIndex, errs.ErrUnknownOrder)
		return
	}
	if op.NewQuantity == 0 {
		res.fail(opIndex, errs.ErrAmendNoop)
		return
	}

	curPrice := ov.effPrice(order)
	curRemaining := ov.effRemaining(order)

	if op.NewPrice == curPrice && op.NewQuantity <= curRemaining {
		if op.NewQuantity < curRemaining {
			res.Instructions = append(res.Instructions, reprice(order, curPrice, op.NewQuantity))
			ov.setAmendOverride(order.ID(), curPrice, op.NewQuantity)
		}
		return
	}

	res.Instructions = append(res.Instructions, remove(order.ID()))
	ov.markRemoved(order.ID())
	res.Instructions = append(res.Instructions, reprice(order, op.NewPrice, op.NewQuantity))
	ov.setAmendOverride(order.ID(), op.NewPrice, op.NewQuantity)

	e.evalInsert(ov, order, false, res, opIndex)

	if ov.effRemaining(order) == 0 {
		ov.markRemoved(order.ID())
	}
}
