// Package journal encodes and decodes obcore.Op batches for replay. It is
// deliberately decoupled from obcore.Order's interface — a journal entry
// names an order by id/owner/side/price/quantity, not by the polymorphic
// value an embedder constructed, so a recorded session can be replayed by
// obcoresim without that embedder's types in scope.
package journal

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/itsstevenwal/obcore"
	"github.com/itsstevenwal/obcore/sample"
)

// OpRecord is the on-disk shape of one obcore.Op. Kind selects which of
// the remaining fields are meaningful, mirroring Op itself.
type OpRecord struct {
	Kind string `json:"kind"`

	OrderID   obcore.OrderID  `json:"order_id,omitempty"`
	Owner     obcore.OwnerID  `json:"owner,omitempty"`
	Side      string          `json:"side,omitempty"`
	Price     obcore.Price    `json:"price,omitempty"`
	Quantity  obcore.Quantity `json:"quantity,omitempty"`
	CancelID  obcore.OrderID  `json:"cancel_id,omitempty"`
	NewPrice  obcore.Price    `json:"new_price,omitempty"`
	NewQty    obcore.Quantity `json:"new_quantity,omitempty"`
}

// Session wraps a batch of records with an id, so replaying two journal
// files against the same Book can be told apart in logs.
type Session struct {
	ID      string      `json:"id"`
	Records []OpRecord  `json:"ops"`
}

// NewSession tags records with a freshly generated session id.
func NewSession(records []OpRecord) Session {
	return Session{ID: uuid.NewString(), Records: records}
}

// Encode renders ops to their journal form. Only OpInsert and OpMarket
// retain the order's owner/side/price/quantity, read off the Order value
// at encode time; OpCancel/OpAmend need only the ids/targets they already
// carry.
func Encode(ops []obcore.Op) ([]byte, error) {
	records := make([]OpRecord, 0, len(ops))
	for i, op := range ops {
		rec, err := encodeOp(op)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return json.Marshal(NewSession(records))
}

func encodeOp(op obcore.Op) (OpRecord, error) {
	switch op.Kind {
	case obcore.OpInsert, obcore.OpMarket:
		if op.Order == nil {
			return OpRecord{}, fmt.Errorf("%s op carries no order", op.Kind)
		}
		kind := "insert"
		if op.Kind == obcore.OpMarket {
			kind = "market"
		}
		return OpRecord{
			Kind:     kind,
			OrderID:  op.Order.ID(),
			Owner:    op.Order.Owner(),
			Side:     op.Order.Side().String(),
			Price:    op.Order.Price(),
			Quantity: op.Order.Quantity(),
		}, nil
	case obcore.OpCancel:
		return OpRecord{Kind: "cancel", CancelID: op.ID}, nil
	case obcore.OpAmend:
		return OpRecord{Kind: "amend", CancelID: op.ID, NewPrice: op.NewPrice, NewQty: op.NewQuantity}, nil
	default:
		return OpRecord{}, fmt.Errorf("unrecognized op kind %v", op.Kind)
	}
}

// Decode parses a journal payload back into Ops, constructing concrete
// sample.Order values for any record that carries one. A caller using its
// own Order type will typically decode into []OpRecord directly instead
// and build its own orders from those fields.
func Decode(data []byte) ([]obcore.Op, error) {
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	ops := make([]obcore.Op, 0, len(session.Records))
	for i, rec := range session.Records {
		op, err := decodeOp(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func decodeOp(rec OpRecord) (obcore.Op, error) {
	switch rec.Kind {
	case "insert", "market":
		side, err := parseSide(rec.Side)
		if err != nil {
			return obcore.Op{}, err
		}
		o := sample.New(rec.OrderID, rec.Owner, side, rec.Price, rec.Quantity)
		if rec.Kind == "market" {
			return obcore.MarketOp(o), nil
		}
		return obcore.InsertOp(o), nil
	case "cancel":
		return obcore.CancelOp(rec.CancelID), nil
	case "amend":
		return obcore.AmendOp(rec.CancelID, rec.NewPrice, rec.NewQty), nil
	default:
		return obcore.Op{}, fmt.Errorf("unrecognized record kind %q", rec.Kind)
	}
}

func parseSide(s string) (obcore.Side, error) {
	switch s {
	case "buy":
		return obcore.Buy, nil
	case "sell":
		return obcore.Sell, nil
	default:
		return 0, fmt.Errorf("unrecognized side %q", s)
	}
}
