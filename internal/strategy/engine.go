package strategy

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Evaluation is the classifier decision plus its confidence and reasons.
type Evaluation struct {
	Decision   Decision
	Confidence Confidence
	Reasons    []string
}

// Direction is shorthand for Decision.Direction.
func (e *Evaluation) Direction() model.Direction { return e.Decision.Direction }

// Evaluate classifies the snapshot and, for BUY or SELL, scores it.
func Evaluate(snap *model.IndicatorSnapshot, p *Profile) *Evaluation {
	d := Classify(snap, p)
	ev := &Evaluation{Decision: d}
	side, ok := SideOf(d.Direction)
	if !ok {
		if d.GatedBy != "" {
			ev.Reasons = []string{fmt.Sprintf("gated by %s", d.GatedBy)}
		}
		return ev
	}

	ev.Confidence = Score(snap, d.Direction, p)
	for _, e := range d.Conditions.Satisfied(side) {
		ev.Reasons = append(ev.Reasons, fmt.Sprintf("%s: %s", e.Name, e.Kind.Describe(snap, side, e.Threshold)))
	}
	return ev
}
