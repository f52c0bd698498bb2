package obcore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsstevenwal/obcore"
	"github.com/itsstevenwal/obcore/sample"
)

// --- Setup & Helpers --------------------------------------------------------

var nextID obcore.OrderID

func newOrder(owner string, side obcore.Side, price, qty uint64) *sample.Order {
	nextID++
	return sample.New(nextID, obcore.OwnerID(owner), side, obcore.Price(price), obcore.Quantity(qty))
}

func insert(book *obcore.Book, eval *obcore.Evaluator, o obcore.Order) obcore.Result {
	res := eval.Eval(book, []obcore.Op{obcore.InsertOp(o)})
	obcore.Apply(book, res.Instructions)
	return res
}

// --- Tests ------------------------------------------------------------------

func TestEval_RestingInsert_NoMatch(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	bid := newOrder("alice", obcore.Buy, 99, 10)
	res := insert(book, eval, bid)

	assert.Empty(t, res.Matches)
	require.NotNil(t, book.BestBid())
	assert.Equal(t, obcore.Price(99), book.BestBid().Price)
	assert.Equal(t, obcore.Quantity(10), book.BestBid().Aggregate)
	assert.Nil(t, book.BestAsk())
}

func TestEval_FullCross_SingleLevel(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	maker := newOrder("alice", obcore.Sell, 100, 10)
	insert(book, eval, maker)

	taker := newOrder("bob", obcore.Buy, 100, 10)
	res := insert(book, eval, taker)

	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	assert.Equal(t, maker.ID(), m.MakerID)
	assert.Equal(t, taker.ID(), m.TakerID)
	assert.Equal(t, obcore.Price(100), m.Price)
	assert.Equal(t, obcore.Quantity(10), m.Quantity)

	assert.Nil(t, book.BestAsk())
	assert.Nil(t, book.BestBid())
	assert.Equal(t, obcore.Quantity(0), maker.Remaining())
	assert.Equal(t, obcore.Quantity(0), taker.Remaining())
}

func TestEval_PartialAggressor_RestsResidual(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	maker := newOrder("alice", obcore.Sell, 100, 6)
	insert(book, eval, maker)

	taker := newOrder("bob", obcore.Buy, 100, 10)
	res := insert(book, eval, taker)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, obcore.Quantity(6), res.Matches[0].Quantity)
	assert.Equal(t, obcore.Quantity(4), taker.Remaining())

	require.NotNil(t, book.BestBid())
	assert.Equal(t, obcore.Quantity(4), book.BestBid().Aggregate)
	assert.Nil(t, book.BestAsk())
}

func TestEval_PriceTimePriority(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	first := newOrder("alice", obcore.Sell, 100, 5)
	second := newOrder("carol", obcore.Sell, 100, 5)
	insert(book, eval, first)
	insert(book, eval, second)

	taker := newOrder("bob", obcore.Buy, 100, 5)
	res := insert(book, eval, taker)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, first.ID(), res.Matches[0].MakerID)
	assert.Equal(t, obcore.Quantity(0), first.Remaining())
	assert.Equal(t, obcore.Quantity(5), second.Remaining())
}

func TestEval_SelfTradePrevention_Skip(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book) // default policy is STPSkip

	resting := newOrder("alice", obcore.Sell, 100, 5)
	insert(book, eval, resting)

	taker := newOrder("alice", obcore.Buy, 100, 5)
	res := insert(book, eval, taker)

	assert.Empty(t, res.Matches)
	require.NotNil(t, book.BestAsk())
	assert.Equal(t, obcore.Quantity(5), book.BestAsk().Aggregate)
	require.NotNil(t, book.BestBid())
	assert.Equal(t, obcore.Quantity(5), book.BestBid().Aggregate)
}

func TestEval_SelfTradePrevention_CancelOldest(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book, obcore.WithSTPPolicy(obcore.STPCancelOldest))

	resting := newOrder("alice", obcore.Sell, 100, 5)
	insert(book, eval, resting)

	taker := newOrder("alice", obcore.Buy, 100, 5)
	res := insert(book, eval, taker)

	assert.Empty(t, res.Matches)
	assert.Nil(t, book.BestAsk())
	require.NotNil(t, book.BestBid())
	assert.Equal(t, obcore.Quantity(5), book.BestBid().Aggregate)
}

func TestEval_CancelUnknownID_ProducesOpError(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	res := eval.Eval(book, []obcore.Op{obcore.CancelOp(obcore.OrderID(999))})

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Index)
	assert.Empty(t, res.Instructions)
}

func TestEval_Cancel_RemovesRestingOrder(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	bid := newOrder("alice", obcore.Buy, 99, 10)
	insert(book, eval, bid)

	res := eval.Eval(book, []obcore.Op{obcore.CancelOp(bid.ID())})
	obcore.Apply(book, res.Instructions)

	assert.Empty(t, res.Errors)
	assert.Nil(t, book.BestBid())
}

func TestEval_Amend_QuantityDecrease_KeepsPriority(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	first := newOrder("alice", obcore.Sell, 100, 10)
	second := newOrder("carol", obcore.Sell, 100, 10)
	insert(book, eval, first)
	insert(book, eval, second)

	res := eval.Eval(book, []obcore.Op{obcore.AmendOp(first.ID(), 100, 4)})
	obcore.Apply(book, res.Instructions)
	assert.Equal(t, obcore.Quantity(4), first.Remaining())

	taker := newOrder("bob", obcore.Buy, 100, 4)
	tradeRes := insert(book, eval, taker)

	require.Len(t, tradeRes.Matches, 1)
	assert.Equal(t, first.ID(), tradeRes.Matches[0].MakerID)
}

func TestEval_Amend_PriceChange_LosesPriorityAndRematches(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	resting := newOrder("alice", obcore.Buy, 99, 10)
	insert(book, eval, resting)

	ask := newOrder("carol", obcore.Sell, 100, 5)
	insert(book, eval, ask)

	res := eval.Eval(book, []obcore.Op{obcore.AmendOp(resting.ID(), 100, 10)})
	obcore.Apply(book, res.Instructions)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, ask.ID(), res.Matches[0].MakerID)
	assert.Equal(t, resting.ID(), res.Matches[0].TakerID)
	assert.Equal(t, obcore.Quantity(5), resting.Remaining())
	assert.Equal(t, obcore.Price(100), resting.Price())

	require.NotNil(t, book.BestBid())
	assert.Equal(t, obcore.Price(100), book.BestBid().Price)
	assert.Equal(t, obcore.Quantity(5), book.BestBid().Aggregate)
}

func TestEval_MarketOrder_NeverRests(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	maker := newOrder("alice", obcore.Sell, 100, 5)
	insert(book, eval, maker)

	taker := newOrder("bob", obcore.Buy, 0, 10)
	res := eval.Eval(book, []obcore.Op{obcore.MarketOp(taker)})
	obcore.Apply(book, res.Instructions)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, obcore.Quantity(5), res.Matches[0].Quantity)
	assert.Nil(t, book.BestBid())
	assert.Nil(t, book.BestAsk())
}

func TestEval_BatchOverlay_LaterOpSeesEarlierOpEffects(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	taker := newOrder("bob", obcore.Buy, 100, 10)
	maker := newOrder("alice", obcore.Sell, 100, 10)

	res := eval.Eval(book, []obcore.Op{obcore.InsertOp(maker), obcore.InsertOp(taker)})
	obcore.Apply(book, res.Instructions)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, maker.ID(), res.Matches[0].MakerID)
	assert.Nil(t, book.BestAsk())
	assert.Nil(t, book.BestBid())
}
