package obcore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itsstevenwal/obcore"
	"github.com/itsstevenwal/obcore/errs"
)

func TestApply_ReapplyingInstructionsPanicsWithApplyFault(t *testing.T) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	o := newOrder("a", obcore.Buy, 100, 5)
	res := eval.Eval(book, []obcore.Op{obcore.InsertOp(o)})
	obcore.Apply(book, res.Instructions)

	cancelRes := eval.Eval(book, []obcore.Op{obcore.CancelOp(o.ID())})
	obcore.Apply(book, cancelRes.Instructions)

	assert.PanicsWithValue(t,
		errs.NewApplyFault("remove target not indexed", errs.ErrUnknownOrder),
		func() { obcore.Apply(book, cancelRes.Instructions) },
	)
}
