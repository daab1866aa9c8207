package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
)

const helpText = "Available commands:\n• /signals\n• /status\n• /refresh [symbol]\n• /news"

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// "/status@SentinelBot" addresses a specific bot in group chats.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/signals":
		return notifier.FormatSignalList(s.Store.All(), s.Now())
	case "/status":
		return notifier.FormatStatuses(s.Store.Statuses(), s.Now())
	case "/news":
		if s.News == nil {
			return "News filter disabled."
		}
		return notifier.FormatNews(s.News, s.Now())
	case "/refresh":
		if len(args) == 0 {
			s.RunAsync(TriggerManual)
			return fmt.Sprintf("Refreshing %d symbols…", len(s.Store.Symbols()))
		}
		symbol := strings.ToUpper(args[0])
		res, err := s.RefreshSymbol(ctx, symbol)
		switch {
		case errors.Is(err, ErrUnknownSymbol):
			return fmt.Sprintf("Unknown symbol %s.", symbol)
		case err != nil:
			return fmt.Sprintf("Refresh %s failed: %v", symbol, err)
		case res.State == model.StatusSignal:
			return fmt.Sprintf("%s: %s signal, %.0f%% %s", symbol, res.Signal.Direction, res.Signal.ConfidencePercent, res.Signal.ConfidenceTier)
		case res.Err != nil:
			return fmt.Sprintf("%s: %s (%v)", symbol, res.State, res.Err)
		default:
			return fmt.Sprintf("%s: %s", symbol, res.State)
		}
	default:
		return helpText
	}
}
