package sample_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itsstevenwal/obcore"
	"github.com/itsstevenwal/obcore/sample"
)

func TestOrder_Fill_ReducesRemaining(t *testing.T) {
	o := sample.New(1, "alice", obcore.Buy, 100, 10)
	o.Fill(4)
	assert.Equal(t, obcore.Quantity(6), o.Remaining())
	assert.Equal(t, obcore.Quantity(10), o.Quantity())
}

func TestOrder_Fill_PanicsOnOverfill(t *testing.T) {
	o := sample.New(1, "alice", obcore.Buy, 100, 10)
	assert.Panics(t, func() { o.Fill(11) })
}

func TestOrder_Reprice_SetsPriceAndRemaining(t *testing.T) {
	o := sample.New(1, "alice", obcore.Buy, 100, 10)
	o.Reprice(105, 7)
	assert.Equal(t, obcore.Price(105), o.Price())
	assert.Equal(t, obcore.Quantity(7), o.Remaining())
}
