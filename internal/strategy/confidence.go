package strategy

import (
	"math"

	"SignalSentinel/internal/model"
)

// Confidence is the scored strength of a BUY or SELL decision.
type Confidence struct {
	Percent float64
	Tier    model.Tier
	Score   float64
	Factors []model.FactorScore
}

// Score sums weighted partial credit per factor for the winning direction
// and normalizes it against the maximum possible score. HOLD scores zero.
func Score(snap *model.IndicatorSnapshot, direction model.Direction, p *Profile) Confidence {
	side, ok := SideOf(direction)
	if !ok {
		return Confidence{}
	}

	var c Confidence
	for _, f := range p.Factors {
		fs := model.FactorScore{Name: f.Name, Weight: f.Weight}
		for _, g := range f.Grades {
			if g.Kind.Eval(snap, side, g.Threshold) {
				fs.Credit = g.Credit
				fs.Weighted = f.Weight * g.Credit
				fs.Reason = g.Kind.Describe(snap, side, g.Threshold)
				break
			}
		}
		c.Score += fs.Weighted
		c.Factors = append(c.Factors, fs)
	}

	if total := p.MaxScore(); total > 0 {
		c.Percent = math.Min(100, 100*c.Score/total)
	}
	c.Percent = math.Round(c.Percent*100) / 100
	c.Tier = mapTier(c.Percent, p.Tiers)
	return c
}

// mapTier maps a confidence percentage to a tier.
func mapTier(percent float64, t Tiers) model.Tier {
	switch {
	case percent >= t.High:
		return model.TierHigh
	case percent >= t.Medium:
		return model.TierMedium
	default:
		return model.TierLow
	}
}
