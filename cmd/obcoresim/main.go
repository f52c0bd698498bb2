// obcoresim is a small demonstration binary for the obcore matching
// engine: it replays a journal of operations against a fresh Book and
// prints the resulting trade tape, or benchmarks Eval/Apply throughput
// against a synthetic batch. It is not part of the engine itself — an
// embedder wires obcore directly into its own service.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/itsstevenwal/obcore/cmd/obcoresim/internal/simcmd"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := simcmd.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
