package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsstevenwal/obcore"
	"github.com/itsstevenwal/obcore/journal"
	"github.com/itsstevenwal/obcore/sample"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ops := []obcore.Op{
		obcore.InsertOp(sample.New(1, "alice", obcore.Buy, 99, 10)),
		obcore.MarketOp(sample.New(2, "bob", obcore.Sell, 0, 5)),
		obcore.CancelOp(1),
		obcore.AmendOp(2, 101, 20),
	}

	data, err := journal.Encode(ops)
	require.NoError(t, err)

	decoded, err := journal.Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 4)

	assert.Equal(t, obcore.OpInsert, decoded[0].Kind)
	assert.Equal(t, obcore.OrderID(1), decoded[0].Order.ID())
	assert.Equal(t, obcore.Buy, decoded[0].Order.Side())
	assert.Equal(t, obcore.Price(99), decoded[0].Order.Price())

	assert.Equal(t, obcore.OpMarket, decoded[1].Kind)
	assert.Equal(t, obcore.OrderID(2), decoded[1].Order.ID())

	assert.Equal(t, obcore.OpCancel, decoded[2].Kind)
	assert.Equal(t, obcore.OrderID(1), decoded[2].ID)

	assert.Equal(t, obcore.OpAmend, decoded[3].Kind)
	assert.Equal(t, obcore.Price(101), decoded[3].NewPrice)
	assert.Equal(t, obcore.Quantity(20), decoded[3].NewQuantity)
}

func TestDecode_UnrecognizedKind(t *testing.T) {
	_, err := journal.Decode([]byte(`{"id":"x","ops":[{"kind":"teleport"}]}`))
	assert.Error(t, err)
}
