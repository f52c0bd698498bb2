package obcore

import (
	"github.com/huandu/skiplist"
)

// seqKey orders a Level's resting-order queue by arrival sequence
// (ascending: earliest first). Modeled on the price comparators the
// reference perp-dex keeper pairs with huandu/skiplist
// (x/orderbook/keeper/orderbook_v2.go's priceKeyAsc/priceKeyDesc), just
// keyed by sequence number instead of price.
type seqKey struct{}

func (seqKey) Compare(lhs, rhs interface{}) int {
	l, r := lhs.(uint64), rhs.(uint64)
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func (seqKey) CalcScore(key interface{}) float64 {
	return float64(key.(uint64))
}

// Level is one price level on one side: a time-ordered queue of resting
// orders (FIFO by arrival sequence) plus the cached sum of their
// remaining quantities.
//
// Invariants (spec.md §3 / §8): Aggregate always equals the sum of
// members' Remaining(); every member has this Level's Price and Side;
// members are stored in strict arrival order, ties broken by the
// sequence number assigned at AddResting time.
type Level struct {
	Price Price
	Side  Side

	queue     *skiplist.SkipList // seq (uint64) -> Order
	Aggregate Quantity
}

func newLevel(price Price, side Side) *Level {
	return &Level{
		Price: price,
		Side:  side,
		queue: skiplist.New(seqKey{}),
	}
}

// Len returns the number of resting orders at this level.
func (l *Level) Len() int {
	return l.queue.Len()
}

// Empty reports whether the level has no resting orders; the Book removes
// a Level the instant it empties (spec.md §3 invariant: no empty Levels
// persist).
func (l *Level) Empty() bool {
	return l.queue.Len() == 0
}

func (l *Level) push(seq uint64, o Order) {
	l.queue.Set(seq, o)
	l.Aggregate += o.Remaining()
}

// front returns the earliest-arrived resting order, or nil if empty.
func (l *Level) front() (uint64, Order, bool) {
	el := l.queue.Front()
	if el == nil {
		return 0, nil, false
	}
	return el.Key().(uint64), el.Value.(Order), true
}

// orderAt returns the order stored at seq, without removing it.
func (l *Level) orderAt(seq uint64) (Order, bool) {
	el := l.queue.Get(seq)
	if el == nil {
		return nil, false
	}
	return el.Value.(Order), true
}

// remove excises the order at seq, decrementing the aggregate by its
// current Remaining(). Returns the removed order and whether seq was
// present — absence is a structural bug, not expected in normal operation.
func (l *Level) remove(seq uint64) (Order, bool) {
	el := l.queue.Get(seq)
	if el == nil {
		return nil, false
	}
	o := el.Value.(Order)
	l.queue.Remove(seq)
	l.Aggregate -= o.Remaining()
	return o, true
}

// Orders returns the resting orders in arrival order. It allocates; it is
// meant for inspection (tests, logging), not the hot matching path.
func (l *Level) Orders() []Order {
	out := make([]Order, 0, l.queue.Len())
	for el := l.queue.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(Order))
	}
	return out
}
