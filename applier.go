package obcore

import (
	"github.com/itsstevenwal/obcore/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Apply commits an Instruction sequence produced by Eval to book, in
// order. It is the only code in the package that mutates a Book or an
// Order's own fields (spec.md §4.3's split between planning and
// committing). instrs must be exactly what Eval returned for book's prior
// state, unmodified and in order — Apply trusts that and does not
// re-derive it; panics with an *errs.ApplyFault if a precondition it
// relies on (an id present, a Level present) does not hold, since that
// means the caller handed it a stream planned against different Book
// state than it is applying to.
func Apply(book *Book, instrs []Instruction) {
	for _, instr := range instrs {
		switch instr.Kind {
		case InstrAddResting:
			applyAddResting(book, instr)
		case InstrFill:
			applyFill(book, instr)
		case InstrRemove:
			applyRemove(book, instr)
		case InstrReprice:
			applyReprice(book, instr)
		default:
			raise("unknown instruction kind", nil)
		}
	}
}

func applyAddResting(book *Book, instr Instruction) {
	lvl := book.getOrCreateLevel(instr.Side, instr.Price)
	if lvl.Aggregate+instr.Order.Remaining() < lvl.Aggregate {
		raise("level aggregate would overflow", nil)
	}
	lvl.push(instr.Seq, instr.Order)
	book.setIndex(instr.Order.ID(), instr.Side, instr.Price, instr.Seq)
	book.bumpSequence(instr.Seq)
}

// applyFill reduces instr.Order's remaining quantity. If the fill leaves
// it at zero and it is resting, the Level entry is detached directly
// (via the skiplist, bypassing Level.remove) because the aggregate was
// already decremented by exactly instr.Quantity a few lines up — calling
// Level.remove here would decrement it a second time, by the order's
// now-zero Remaining().
func applyFill(book *Book, instr Instruction) {
	o := instr.Order
	if o == nil {
		raise("fill instruction carries no order", nil)
	}
	loc, resting := book.indexLocation(o.ID())
	var lvl *Level
	if resting {
		lvl = book.levelAt(loc.side, loc.price)
		if lvl == nil {
			raise("fill target indexed but its level is gone", nil)
		}
		lvl.Aggregate -= instr.Quantity
	}
	o.Fill(instr.Quantity)
	if resting && o.Remaining() == 0 {
		lvl.queue.Remove(loc.seq)
		book.clearIndex(o.ID())
		book.dropLevelIfEmpty(loc.side, loc.price)
	}
}

func applyRemove(book *Book, instr Instruction) {
	loc, ok := book.indexLocation(instr.OrderID)
	if !ok {
		raise("remove target not indexed", errs.ErrUnknownOrder)
	}
	lvl := book.levelAt(loc.side, loc.price)
	if lvl == nil {
		raise("remove target indexed but its level is gone", nil)
	}
	if _, ok := lvl.remove(loc.seq); !ok {
		raise("remove target not present in its level's queue", nil)
	}
	book.clearIndex(instr.OrderID)
	book.dropLevelIfEmpty(loc.side, loc.price)
}

// applyReprice mutates the order's own price/quantity fields directly.
// It never touches the Level's queue or the id index: a quantity-decrease
// amend (path 1) stays at its existing queue position, so only its Level's
// aggregate is adjusted to the new quantity; a price-change amend (path 2)
// arrives paired with
// a preceding InstrRemove that already detached the old entry, and a
// following InstrAddResting that will index it at its new position.
func applyReprice(book *Book, instr Instruction) {
	o := instr.Order
	if o == nil {
		raise("reprice instruction carries no order", nil)
	}
	loc, resting := book.indexLocation(o.ID())
	if resting {
		lvl := book.levelAt(loc.side, loc.price)
		if lvl != nil {
			lvl.Aggregate -= o.Remaining()
			lvl.Aggregate += instr.NewQuantity
		}
	}
	o.Reprice(instr.NewPrice, instr.NewQuantity)
}

// raise logs the fault at error level and panics with an *errs.ApplyFault.
// Apply is the sole boundary where a structural violation becomes fatal;
// the panic is meant to be recovered (or allowed to crash) by the caller,
// never by this package.
func raise(reason string, cause error) {
	log.Error().Str("reason", reason).AnErr("cause", cause).Msg("apply fault")
	panic(errs.NewApplyFault(reason, cause))
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
