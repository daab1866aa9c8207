package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/newsfilter"
)

func directionIcon(d model.Direction) string {
	switch d {
	case model.DirectionBuy:
		return "🟢"
	case model.DirectionSell:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatSignal formats an accepted signal into a Telegram message.
func FormatSignal(sig model.Signal) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s <b>%s %s</b> | %s\n", directionIcon(sig.Direction), sig.Direction, html.EscapeString(sig.Symbol), sig.Timestamp.UTC().Format("2006-01-02 15:04 UTC")))
	b.WriteString(fmt.Sprintf("Profile: %s\n\n", sig.Profile))

	b.WriteString(fmt.Sprintf("Entry: %s\n", humanize.Commaf(sig.EntryPrice)))
	b.WriteString(fmt.Sprintf("Stop loss: %s\n", humanize.Commaf(sig.StopLoss)))
	b.WriteString(fmt.Sprintf("Take profit: %s\n", humanize.Commaf(sig.TakeProfit)))
	b.WriteString(fmt.Sprintf("Stop: %.1f pips\n\n", sig.Pips))

	b.WriteString(fmt.Sprintf("📈 <b>Confidence:</b> %.0f%% (%s)\n", sig.ConfidencePercent, sig.ConfidenceTier))
	b.WriteString(fmt.Sprintf("Conditions: %d bullish / %d bearish of %d\n", sig.BullishCount, sig.BearishCount, sig.ConditionTotal))
	for _, r := range sig.Reasons {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(r)))
	}
	return b.String()
}

// FormatSignalList formats the active signals for the /signals command.
func FormatSignalList(signals []model.Signal, now time.Time) string {
	if len(signals) == 0 {
		return "No active signals."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Active signals</b>\n\n")
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("%s %s %s @ %s (SL %s / TP %s) %.0f%% %s, %s\n",
			directionIcon(s.Direction), html.EscapeString(s.Symbol), s.Direction,
			humanize.Commaf(s.EntryPrice), humanize.Commaf(s.StopLoss), humanize.Commaf(s.TakeProfit),
			s.ConfidencePercent, s.ConfidenceTier, humanize.RelTime(s.Timestamp, now, "ago", "from now")))
	}
	return b.String()
}

// FormatStatuses formats per-symbol pipeline states for the /status command.
func FormatStatuses(statuses []model.Status, now time.Time) string {
	var b strings.Builder
	b.WriteString("📦 <b>Status</b>\n\n")
	for _, s := range statuses {
		line := fmt.Sprintf("%s: %s", html.EscapeString(s.Symbol), s.State)
		if s.Message != "" {
			line += " (" + html.EscapeString(s.Message) + ")"
		}
		if !s.UpdatedAt.IsZero() {
			line += ", " + humanize.RelTime(s.UpdatedAt, now, "ago", "from now")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatNews formats the blackout schedule for the /news command.
func FormatNews(f *newsfilter.Filter, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 <b>News blackout</b> (±%s)\n\n", f.Window()))
	for _, ev := range f.Events() {
		b.WriteString(fmt.Sprintf("%s UTC %s\n", ev.Time, html.EscapeString(ev.Label)))
	}
	if active, ev := f.Check(now); active {
		b.WriteString(fmt.Sprintf("\n⚠️ Suppressed now: %s\n", html.EscapeString(ev.Label)))
	} else {
		b.WriteString("\nNo blackout active.\n")
	}
	return b.String()
}
