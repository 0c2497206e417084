package sink

import (
	"context"

	"github.com/rs/zerolog"

	"BreakoutRadar/internal/model"
)

// SignalSink receives each emitted signal. Implementations decide delivery;
// the core only calls Publish.
type SignalSink interface {
	Publish(ctx context.Context, sig *model.Signal) error
}

// LogSink writes signals to the structured log.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a sink that logs each signal.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "sink").Logger()}
}

func (s *LogSink) Publish(_ context.Context, sig *model.Signal) error {
	s.log.Info().
		Str("symbol", sig.Symbol).
		Float64("entry", sig.Entry).
		Float64("stop", sig.Stop).
		Float64("target", sig.Target).
		Float64("risk_reward", sig.RiskReward).
		Float64("strength", sig.StrengthScore).
		Float64("quality", sig.QualityScore).
		Int("confluences", len(sig.Confluences)).
		Msg("signal")
	return nil
}

// MultiSink fans a signal out to several sinks; the first error wins but all
// sinks are attempted.
type MultiSink struct {
	sinks []SignalSink
}

// NewMultiSink combines sinks.
func NewMultiSink(sinks ...SignalSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Publish(ctx context.Context, sig *model.Signal) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, sig); err != nil && first == nil {
			first = err
		}
	}
	return first
}
