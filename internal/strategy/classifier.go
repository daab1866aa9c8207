package strategy

import "SignalSentinel/internal/model"

// Evaluated is a condition together with its outcome for one side.
type Evaluated struct {
	Condition
	Satisfied bool
}

// ConditionSet is the bullish and bearish evaluation of one condition table.
type ConditionSet struct {
	Bullish []Evaluated
	Bearish []Evaluated
}

// BuildConditionSet evaluates every condition for both sides.
func BuildConditionSet(snap *model.IndicatorSnapshot, conditions []Condition) ConditionSet {
	cs := ConditionSet{
		Bullish: make([]Evaluated, len(conditions)),
		Bearish: make([]Evaluated, len(conditions)),
	}
	for i, c := range conditions {
		cs.Bullish[i] = Evaluated{Condition: c, Satisfied: c.Kind.Eval(snap, Bullish, c.Threshold)}
		cs.Bearish[i] = Evaluated{Condition: c, Satisfied: c.Kind.Eval(snap, Bearish, c.Threshold)}
	}
	return cs
}

// Count returns the number of satisfied predicates on one side.
func (cs ConditionSet) Count(side Side) int {
	n := 0
	for _, e := range cs.side(side) {
		if e.Satisfied {
			n++
		}
	}
	return n
}

// Satisfied returns the satisfied predicates on one side, in table order.
func (cs ConditionSet) Satisfied(side Side) []Evaluated {
	var out []Evaluated
	for _, e := range cs.side(side) {
		if e.Satisfied {
			out = append(out, e)
		}
	}
	return out
}

func (cs ConditionSet) side(side Side) []Evaluated {
	if side == Bullish {
		return cs.Bullish
	}
	return cs.Bearish
}

// Decision is the classifier outcome for one snapshot.
type Decision struct {
	Direction  model.Direction
	Bullish    int
	Bearish    int
	Total      int
	GatedBy    string
	Conditions ConditionSet
}

// Classify emits BUY when the bullish count reaches the threshold and beats
// the bearish count, SELL symmetrically, HOLD otherwise. A failed gate on the
// winning side turns the decision into HOLD.
func Classify(snap *model.IndicatorSnapshot, p *Profile) Decision {
	cs := BuildConditionSet(snap, p.Conditions)
	d := Decision{
		Direction:  model.DirectionHold,
		Bullish:    cs.Count(Bullish),
		Bearish:    cs.Count(Bearish),
		Total:      len(p.Conditions),
		Conditions: cs,
	}
	switch {
	case d.Bullish >= p.Threshold && d.Bullish > d.Bearish:
		d.Direction = model.DirectionBuy
	case d.Bearish >= p.Threshold && d.Bearish > d.Bullish:
		d.Direction = model.DirectionSell
	default:
		return d
	}

	side, _ := SideOf(d.Direction)
	for _, g := range p.Gates {
		if !g.Kind.Eval(snap, side, g.Threshold) {
			d.GatedBy = g.Name
			d.Direction = model.DirectionHold
			break
		}
	}
	return d
}
