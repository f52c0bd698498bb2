package simcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsstevenwal/obcore"
	"github.com/itsstevenwal/obcore/sample"
)

func benchCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time Eval+Apply over a synthetic resting-order batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			runBench(n)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 100000, "number of resting orders to insert")
	return cmd
}

func runBench(n int) {
	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)

	ops := make([]obcore.Op, n)
	for i := 0; i < n; i++ {
		side := obcore.Buy
		if i%2 == 1 {
			side = obcore.Sell
		}
		price := obcore.Price(1000 - i%50)
		if side == obcore.Sell {
			price = obcore.Price(1050 + i%50)
		}
		o := sample.New(obcore.OrderID(i+1), obcore.OwnerID(fmt.Sprintf("acct-%d", i%1000)), side, price, 10)
		ops[i] = obcore.InsertOp(o)
	}

	start := time.Now()
	res := eval.Eval(book, ops)
	evalDur := time.Since(start)

	start = time.Now()
	obcore.Apply(book, res.Instructions)
	applyDur := time.Since(start)

	fmt.Printf("ops=%d matches=%d errors=%d eval=%s apply=%s (%.0f ops/sec)\n",
		n, len(res.Matches), len(res.Errors), evalDur, applyDur,
		float64(n)/(evalDur+applyDur).Seconds())
}
