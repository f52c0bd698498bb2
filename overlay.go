package obcore

// levelKey names a price level within the overlay's pending-add map.
type levelKey struct {
	side  Side
	price Price
}

// pendingResting is an order the current batch has decided to rest, but
// that has not yet been written to the Book — it exists only for the
// remainder of this Eval call, so later Ops in the same batch see it.
type pendingResting struct {
	seq   uint64
	order Order
}

// overlay is the provisional, append-only diff threaded through a single
// Eval call so that Op i+1 observes the effects of Op i without the
// Evaluator mutating the Book (spec.md §4.3, §9). It tracks:
//
//   - cumulative overlay-fill per order id, so effective remaining can be
//     computed from a baseline (the real Order's Remaining(), or an amend's
//     new baseline) minus this batch's fills;
//   - price/remaining overrides, for an order amended earlier in the same
//     batch (its real fields are still stale until Apply runs);
//   - a removed set, for orders fully consumed, cancelled, or mid-amend
//     within the batch;
//   - pending AddResting entries, keyed by price level, in arrival order.
//
// overlay never touches the Book or mutates any Order value; eval purity
// (spec.md §8) depends on that — all of this is pure bookkeeping.
type overlay struct {
	book *Book

	filled            map[OrderID]Quantity
	removed           map[OrderID]struct{}
	priceOverride     map[OrderID]Price
	remainingOverride map[OrderID]Quantity

	pending    map[levelKey][]*pendingResting
	pendingLoc map[OrderID]levelKey
}

func newOverlay(book *Book) *overlay {
	return &overlay{
		book:              book,
		filled:            make(map[OrderID]Quantity),
		removed:           make(map[OrderID]struct{}),
		priceOverride:     make(map[OrderID]Price),
		remainingOverride: make(map[OrderID]Quantity),
		pending:           make(map[levelKey][]*pendingResting),
		pendingLoc:        make(map[OrderID]levelKey),
	}
}

// effPrice returns o's price as of this point in the batch: an amend's
// override if one has been planned for it this batch, else its real
// Price().
func (ov *overlay) effPrice(o Order) Price {
	if p, ok := ov.priceOverride[o.ID()]; ok {
		return p
	}
	return o.Price()
}

// effRemaining returns o's remaining quantity as of this point in the
// batch: the baseline (an amend override, or else its real Remaining())
// less whatever this batch has already filled against it. A removed order
// always reads zero.
func (ov *overlay) effRemaining(o Order) Quantity {
	if ov.isRemoved(o.ID()) {
		return 0
	}
	baseline, overridden := ov.remainingOverride[o.ID()]
	if !overridden {
		baseline = o.Remaining()
	}
	filled := ov.filled[o.ID()]
	if filled >= baseline {
		return 0
	}
	return baseline - filled
}

func (ov *overlay) isRemoved(id OrderID) bool {
	_, dead := ov.removed[id]
	return dead
}

func (ov *overlay) markFilled(id OrderID, q Quantity) {
	ov.filled[id] += q
}

func (ov *overlay) markRemoved(id OrderID) {
	ov.removed[id] = struct{}{}
	if key, ok := ov.pendingLoc[id]; ok {
		entries := ov.pending[key]
		for i, e := range entries {
			if e.order.ID() == id {
				ov.pending[key] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
		delete(ov.pendingLoc, id)
	}
}

// setAmendOverride records an amend's new (price, remaining) baseline,
// resets this batch's fill counter for id (the baseline already accounts
// for everything up to now), and revives id out of the removed set so
// subsequent matching sees it as live again — the caller is responsible
// for re-marking it removed if it turns out the amend fully consumes it.
func (ov *overlay) setAmendOverride(id OrderID, price Price, remaining Quantity) {
	ov.priceOverride[id] = price
	ov.remainingOverride[id] = remaining
	ov.filled[id] = 0
	delete(ov.removed, id)
}

func (ov *overlay) addPending(side Side, price Price, seq uint64, o Order) {
	key := levelKey{side: side, price: price}
	ov.pending[key] = append(ov.pending[key], &pendingResting{seq: seq, order: o})
	ov.pendingLoc[o.ID()] = key
}

// restingAt returns the full, seq-ordered view of orders resting at (side,
// price) as of this point in the batch: the Book's real Level contents
// (minus overlay-removed ids) followed by this batch's pending adds at
// that price. Real entries are already seq-ascending within the Level;
// pending entries were appended in seq order as they were planned, and
// every pending seq is numerically greater than every seq already in the
// Book (the Evaluator's sequence counter only increases), so the
// concatenation is itself seq-ascending.
func (ov *overlay) restingAt(side Side, price Price) []Order {
	var out []Order
	if l := ov.book.levelAt(side, price); l != nil {
		for _, o := range l.Orders() {
			if !ov.isRemoved(o.ID()) {
				out = append(out, o)
			}
		}
	}
	for _, p := range ov.pending[levelKey{side: side, price: price}] {
		if !ov.isRemoved(p.order.ID()) {
			out = append(out, p.order)
		}
	}
	return out
}

// pricesOnSide returns the distinct prices with live resting liquidity on
// side as of this point in the batch — from the real Book plus any
// batch-local pending price levels the Book does not know about yet —
// sorted best price first.
func (ov *overlay) pricesOnSide(side Side) []Price {
	seen := make(map[Price]bool)
	var prices []Price
	ov.book.IterSide(side, func(l *Level) bool {
		if !seen[l.Price] {
			seen[l.Price] = true
			prices = append(prices, l.Price)
		}
		return true
	})
	for key, entries := range ov.pending {
		if key.side != side || seen[key.price] || len(entries) == 0 {
			continue
		}
		seen[key.price] = true
		prices = append(prices, key.price)
	}
	sortPrices(prices, side)
	return prices
}

func sortPrices(prices []Price, side Side) {
	// Insertion sort: the Book's prices arrive already best-first and only
	// batch-local pending prices are appended out of place, so this does
	// little work and allocates nothing.
	less := func(a, b Price) bool {
		if side == Buy {
			return a > b // bids: highest first
		}
		return a < b // asks: lowest first
	}
	for i := 1; i < len(prices); i++ {
		for j := i; j > 0 && less(prices[j], prices[j-1]); j-- {
			prices[j], prices[j-1] = prices[j-1], prices[j]
		}
	}
}

// locate returns the (side, price) an order is resting at as of this
// point in the batch — either pending from earlier in this same batch, or
// in the real Book and not yet touched — and whether it is known at all.
func (ov *overlay) locate(id OrderID) (Side, Price, bool) {
	if key, ok := ov.pendingLoc[id]; ok {
		return key.side, key.price, true
	}
	if ov.isRemoved(id) {
		return 0, 0, false
	}
	return ov.book.Lookup(id)
}
