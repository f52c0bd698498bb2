// Package sample provides a concrete obcore.Order implementation for
// tests, benchmarks, and the obcoresim demo binary. obcore itself never
// constructs an Order; something has to, and this is that something.
package sample

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/itsstevenwal/obcore"
)

// Order is a minimal obcore.Order: a fixed id/owner/side/price/quantity
// plus a mutable remaining count. ClientRef is not read by obcore at all
// — it exists for an embedder to correlate a resting order back to
// whatever external request created it (a REST call, a journal replay
// line), the way the teacher's common.Order carries a UUID for the same
// purpose.
type Order struct {
	id        obcore.OrderID
	owner     obcore.OwnerID
	side      obcore.Side
	price     obcore.Price
	quantity  obcore.Quantity
	remaining obcore.Quantity

	ClientRef string
}

// New returns an Order with remaining initialized to quantity and a
// freshly generated ClientRef.
func New(id obcore.OrderID, owner obcore.OwnerID, side obcore.Side, price obcore.Price, quantity obcore.Quantity) *Order {
	return &Order{
		id:        id,
		owner:     owner,
		side:      side,
		price:     price,
		quantity:  quantity,
		remaining: quantity,
		ClientRef: uuid.NewString(),
	}
}

func (o *Order) ID() obcore.OrderID         { return o.id }
func (o *Order) Owner() obcore.OwnerID      { return o.owner }
func (o *Order) Side() obcore.Side          { return o.side }
func (o *Order) Price() obcore.Price        { return o.price }
func (o *Order) Quantity() obcore.Quantity  { return o.quantity }
func (o *Order) Remaining() obcore.Quantity { return o.remaining }

func (o *Order) Fill(q obcore.Quantity) {
	if q > o.remaining {
		panic(fmt.Sprintf("sample: fill %d exceeds remaining %d for order %d", q, o.remaining, o.id))
	}
	o.remaining -= q
}

func (o *Order) Reprice(price obcore.Price, remaining obcore.Quantity) {
	o.price = price
	o.remaining = remaining
}

func (o *Order) String() string {
	return fmt.Sprintf("Order{id:%d owner:%s side:%s price:%d qty:%d/%d ref:%s}",
		o.id, o.owner, o.side, o.price, o.remaining, o.quantity, o.ClientRef)
}
