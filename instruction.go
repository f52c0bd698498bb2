package obcore

// InstrKind discriminates the Instruction union emitted by the Evaluator
// and consumed in order by the Applier.
type InstrKind int

const (
	InstrAddResting InstrKind = iota
	InstrFill
	InstrRemove
	InstrReprice
)

func (k InstrKind) String() string {
	switch k {
	case InstrAddResting:
		return "add_resting"
	case InstrFill:
		return "fill"
	case InstrRemove:
		return "remove"
	case InstrReprice:
		return "reprice"
	default:
		return "unknown"
	}
}

// Instruction is one reified, ordered book mutation. The Instruction
// sequence produced by Eval is the commutative-free serialization of
// planned mutations: the Applier applies it in order and never reorders
// it, which is what makes the sequence journalable and replayable without
// re-running the matcher.
type Instruction struct {
	Kind InstrKind

	// Order is the concrete order object this instruction mutates
	// (AddResting, Fill, Reprice). Carrying the object directly, rather
	// than only its id, lets the Applier mutate it without needing the
	// Book's id index to already hold an entry for it — necessary for a
	// taker's own-side Fill (it is never resting) and for Reprice applied
	// mid-amend (the order may have just been detached by a preceding
	// Remove in the same sequence).
	Order Order
	Side  Side
	Price Price
	Seq   uint64

	// Fill / Remove / Reprice fields.
	OrderID OrderID

	// Fill: quantity to subtract from OrderID's Remaining.
	Quantity Quantity

	// Reprice fields.
	NewPrice    Price
	NewQuantity Quantity
}

func addResting(o Order, side Side, price Price, seq uint64) Instruction {
	return Instruction{Kind: InstrAddResting, Order: o, Side: side, Price: price, Seq: seq}
}

func fill(o Order, q Quantity) Instruction {
	return Instruction{Kind: InstrFill, Order: o, OrderID: o.ID(), Quantity: q}
}

func remove(id OrderID) Instruction {
	return Instruction{Kind: InstrRemove, OrderID: id}
}

func reprice(o Order, newPrice Price, newQuantity Quantity) Instruction {
	return Instruction{Kind: InstrReprice, Order: o, OrderID: o.ID(), NewPrice: newPrice, NewQuantity: newQuantity}
}

// Match is one trade-tape record, emitted in the order trades occur.
type Match struct {
	MakerID   OrderID
	TakerID   OrderID
	Price     Price
	Quantity  Quantity
	MakerSide Side
}
