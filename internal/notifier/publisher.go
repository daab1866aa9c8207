// Package notifier delivers accepted signals and status changes to
// presentation collaborators.
package notifier

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/model"
)

// Publisher receives pipeline events. Implementations must be safe for
// concurrent use; one symbol's pipeline never blocks on another's.
type Publisher interface {
	PublishSignal(ctx context.Context, sig model.Signal) error
	PublishStatus(ctx context.Context, status model.Status) error
	PublishDismiss(ctx context.Context, id string) error
}

// Multi fans every event out to all publishers. One failing sink does not
// stop the rest; the errors are joined.
type Multi []Publisher

func (m Multi) PublishSignal(ctx context.Context, sig model.Signal) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishSignal(ctx, sig); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) PublishStatus(ctx context.Context, status model.Status) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishStatus(ctx, status); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) PublishDismiss(ctx context.Context, id string) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishDismiss(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes events to the global zerolog logger.
type LogPublisher struct{}

func (LogPublisher) PublishSignal(_ context.Context, sig model.Signal) error {
	log.Info().
		Str("symbol", sig.Symbol).
		Str("profile", sig.Profile).
		Str("direction", string(sig.Direction)).
		Float64("entry", sig.EntryPrice).
		Float64("stop_loss", sig.StopLoss).
		Float64("take_profit", sig.TakeProfit).
		Float64("confidence", sig.ConfidencePercent).
		Str("tier", string(sig.ConfidenceTier)).
		Msg("signal")
	return nil
}

func (LogPublisher) PublishStatus(_ context.Context, status model.Status) error {
	log.Debug().Str("symbol", status.Symbol).Str("state", string(status.State)).Msg(status.Message)
	return nil
}

func (LogPublisher) PublishDismiss(_ context.Context, id string) error {
	log.Info().Str("id", id).Msg("signal dismissed")
	return nil
}
