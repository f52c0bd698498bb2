package obcore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsstevenwal/obcore"
)

func TestBook_DepthAt_UnknownLevel(t *testing.T) {
	book := obcore.NewBook()
	assert.Equal(t, obcore.Quantity(0), book.DepthAt(obcore.Buy, 100))
}

func TestBook_IterSide_BestPriceFirst(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	insert(book, eval, newOrder("a", obcore.Buy, 98, 1))
	insert(book, eval, newOrder("b", obcore.Buy, 100, 1))
	insert(book, eval, newOrder("c", obcore.Buy, 99, 1))

	var prices []obcore.Price
	book.IterSide(obcore.Buy, func(l *obcore.Level) bool {
		prices = append(prices, l.Price)
		return true
	})
	require.Equal(t, []obcore.Price{100, 99, 98}, prices)
}

func TestBook_Lookup_ReflectsResting(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	o := newOrder("a", obcore.Sell, 100, 5)
	insert(book, eval, o)

	side, price, ok := book.Lookup(o.ID())
	require.True(t, ok)
	assert.Equal(t, obcore.Sell, side)
	assert.Equal(t, obcore.Price(100), price)

	res := eval.Eval(book, []obcore.Op{obcore.CancelOp(o.ID())})
	obcore.Apply(book, res.Instructions)

	_, _, ok = book.Lookup(o.ID())
	assert.False(t, ok)
}

func TestBook_Crossed_TrueOnlyWhenBidMeetsOrExceedsAsk(t *testing.T) {
	book := obcore.NewBook()
	assert.False(t, book.Crossed())
}
