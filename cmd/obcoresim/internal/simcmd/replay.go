package simcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/tomb.v2"

	"github.com/itsstevenwal/obcore"
	"github.com/itsstevenwal/obcore/journal"
)

func replayCmd() *cobra.Command {
	var tickSize float64
	var path string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a journal of operations against a fresh book",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(path, tickSize)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "journal file to replay (default: stdin)")
	cmd.Flags().Float64Var(&tickSize, "tick-size", 0.01, "decimal value of one price tick, for display only")
	return cmd
}

// runReplay reads a journal (from path, or stdin if empty) on a single
// goroutine supervised by a tomb.Tomb — the engine itself stays
// single-threaded; the tomb only ever owns this one I/O goroutine, never
// Eval/Apply.
func runReplay(path string, tickSize float64) error {
	var t tomb.Tomb
	dataCh := make(chan []byte, 1)

	t.Go(func() error {
		r, err := openInput(path)
		if err != nil {
			return err
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		dataCh <- data
		return nil
	})

	if err := t.Wait(); err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	data := <-dataCh

	ops, err := journal.Decode(data)
	if err != nil {
		return fmt.Errorf("decode journal: %w", err)
	}

	book := obcore.NewBook()
	eval := obcore.NewEvaluator(book)
	res := eval.Eval(book, ops)
	obcore.Apply(book, res.Instructions)

	tick := decimal.NewFromFloat(tickSize)
	for _, m := range res.Matches {
		px := tick.Mul(decimal.NewFromInt(int64(m.Price)))
		log.Info().
			Uint64("maker", uint64(m.MakerID)).
			Uint64("taker", uint64(m.TakerID)).
			Str("price", px.String()).
			Uint64("quantity", uint64(m.Quantity)).
			Msg("trade")
	}
	for _, e := range res.Errors {
		log.Warn().Err(e).Msg("op rejected")
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
