package obcore

import (
	"github.com/tidwall/btree"
)

// location is the Book's secondary index entry: everything needed to find
// an order's Level and its position within it in O(1), before excising it
// from the Level in O(log n).
type location struct {
	side Side
	price Price
	seq  uint64
}

// Book holds two price-indexed sides of resting orders (bids: best =
// highest price; asks: best = lowest price) plus a secondary index from
// OrderID to location, so cancel/amend is O(1) to locate before O(log n)
// to excise (spec.md §3).
//
// A Book has no behavior of its own beyond storage and the queries in
// §4.6; all mutation flows through Apply, and all matching logic lives in
// Eval. This split is the one the teacher's OrderBook.Match conflated and
// spec.md requires separated.
type Book struct {
	bids *btree.BTreeG[*Level] // ordered highest price first
	asks *btree.BTreeG[*Level] // ordered lowest price first

	index map[OrderID]location

	// seq is the monotonic counter assigned to resting orders at
	// AddResting time. It never resets for the lifetime of the Book
	// (spec.md §8: "Monotone sequence").
	seq uint64
}

// NewBook constructs an empty Book with its sequence counter at zero.
func NewBook() *Book {
	return &Book{
		bids: btree.NewBTreeG(func(a, b *Level) bool { return a.Price > b.Price }),
		asks: btree.NewBTreeG(func(a, b *Level) bool { return a.Price < b.Price }),
		index: make(map[OrderID]location),
	}
}

func (b *Book) levels(side Side) *btree.BTreeG[*Level] {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// Sequence returns the highest arrival sequence number recorded so far
// (zero for a fresh Book). A new Evaluator bootstraps its own counter from
// this value, so sequence numbers stay monotonic across Evaluator
// instances operating on the same Book's history (spec.md §6: "an
// Evaluator with its sequence counter at the Book's starting value").
func (b *Book) Sequence() uint64 {
	return b.seq
}

// bumpSequence records that seq has been assigned, advancing the
// high-water mark if seq is newer. Called by the Applier, never by Eval
// (sequence numbers are assigned by the Evaluator; the Book just records
// the latest one actually applied).
func (b *Book) bumpSequence(seq uint64) {
	if seq > b.seq {
		b.seq = seq
	}
}

// levelAt returns the Level at price on side, or nil.
func (b *Book) levelAt(side Side, price Price) *Level {
	l, ok := b.levels(side).Get(&Level{Price: price, Side: side})
	if !ok {
		return nil
	}
	return l
}

// getOrCreateLevel returns the Level at price on side, creating an empty
// one if absent.
func (b *Book) getOrCreateLevel(side Side, price Price) *Level {
	if l := b.levelAt(side, price); l != nil {
		return l
	}
	l := newLevel(price, side)
	b.levels(side).Set(l)
	return l
}

// dropLevelIfEmpty removes the Level at (side, price) from the index if it
// has no resting orders left. No empty Level may persist (spec.md §3/§8).
func (b *Book) dropLevelIfEmpty(side Side, price Price) {
	l := b.levelAt(side, price)
	if l != nil && l.Empty() {
		b.levels(side).Delete(&Level{Price: price, Side: side})
	}
}

// --- Queries (spec.md §4.6 / §6) -------------------------------------------

// BestBid returns the highest-priced bid Level, or nil if the bid side is
// empty.
func (b *Book) BestBid() *Level {
	l, ok := b.bids.Min()
	if !ok {
		return nil
	}
	return l
}

// BestAsk returns the lowest-priced ask Level, or nil if the ask side is
// empty.
func (b *Book) BestAsk() *Level {
	l, ok := b.asks.Min()
	if !ok {
		return nil
	}
	return l
}

// DepthAt returns the aggregate resting quantity at (side, price), or zero
// if no Level exists there.
func (b *Book) DepthAt(side Side, price Price) Quantity {
	l := b.levelAt(side, price)
	if l == nil {
		return 0
	}
	return l.Aggregate
}

// IterSide calls visit for every Level on side, best price first, in
// strict arrival order within each Level. Stops early if visit returns
// false.
func (b *Book) IterSide(side Side, visit func(*Level) bool) {
	b.levels(side).Scan(visit)
}

// Lookup returns the (side, price) a resting order is indexed under, and
// whether it is currently resting.
func (b *Book) Lookup(id OrderID) (Side, Price, bool) {
	loc, ok := b.index[id]
	return loc.side, loc.price, ok
}

// --- Mutation helpers, used only by Apply --------------------------------

func (b *Book) setIndex(id OrderID, side Side, price Price, seq uint64) {
	b.index[id] = location{side: side, price: price, seq: seq}
}

func (b *Book) clearIndex(id OrderID) {
	delete(b.index, id)
}

func (b *Book) indexLocation(id OrderID) (location, bool) {
	loc, ok := b.index[id]
	return loc, ok
}

// Crossed reports whether the best bid price meets or exceeds the best ask
// price. It compares prices only and does not look at owners, so a
// same-owner cross left by self-trade-prevention skip also reports true.
func (b *Book) Crossed() bool {
	bid, ask := b.BestBid(), b.BestAsk()
	if bid == nil || ask == nil {
		return false
	}
	return bid.Price >= ask.Price
}
