package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"BreakoutRadar/internal/recorder"
	"BreakoutRadar/internal/signal"
	"BreakoutRadar/internal/sink"
)

// Summary aggregates one scan pass over the universe.
type Summary struct {
	Evaluated int
	Signals   int
	Rejected  int
	Errors    int
	Elapsed   time.Duration
}

// Scanner evaluates independent instruments in parallel with a bounded worker
// pool. Instrument evaluations are pure and share no state, so the only
// coordination is the result channel. Cancellation is checked per instrument.
type Scanner struct {
	gen     *signal.Generator
	sink    sink.SignalSink
	rec     recorder.Recorder
	workers int
	log     zerolog.Logger
}

// New creates a scanner with the given worker count (minimum 1).
func New(gen *signal.Generator, snk sink.SignalSink, rec recorder.Recorder, workers int, log zerolog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scanner{
		gen:     gen,
		sink:    snk,
		rec:     rec,
		workers: workers,
		log:     log.With().Str("component", "scanner").Logger(),
	}
}

type result struct {
	eval *signal.Evaluation
	err  error
}

// Scan evaluates every symbol as of the given date, publishing each signal to
// the sink. A single-instrument failure never aborts the scan.
func (s *Scanner) Scan(ctx context.Context, symbols []string, asOf time.Time) (*Summary, error) {
	started := time.Now()
	jobs := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				if ctx.Err() != nil {
					return
				}
				eval, err := s.gen.Evaluate(ctx, symbol, asOf)
				select {
				case results <- result{eval: eval, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	sum := &Summary{}
	for r := range results {
		sum.Evaluated++
		switch {
		case r.err != nil:
			sum.Errors++
			s.log.Warn().Err(r.err).Msg("instrument scan failed")
		case r.eval.Passed():
			sum.Signals++
			if err := s.rec.RecordSignal(r.eval.Signal); err != nil {
				s.log.Warn().Err(err).Msg("record signal failed")
			}
			if s.sink != nil {
				if err := s.sink.Publish(ctx, r.eval.Signal); err != nil {
					s.log.Warn().Err(err).Str("symbol", r.eval.Symbol).Msg("publish failed")
				}
			}
		default:
			sum.Rejected++
			s.log.Debug().Str("symbol", r.eval.Symbol).
				Str("gate", r.eval.Rejection.Gate).
				Str("reason", r.eval.Rejection.Reason).Msg("rejected")
		}
	}

	sum.Elapsed = time.Since(started)
	s.log.Info().Int("evaluated", sum.Evaluated).Int("signals", sum.Signals).
		Int("rejected", sum.Rejected).Int("errors", sum.Errors).
		Dur("elapsed", sum.Elapsed).Msg("scan complete")

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}
