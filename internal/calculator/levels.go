package calculator

import (
	"fmt"
	"math"
	"sort"

	"SignalSentinel/internal/model"
)

type levelCluster struct {
	price    float64
	strength int
}

// FindSupportResistance detects swing closes with a full ±window
// neighbourhood and clusters them. A close strictly above every neighbour is a
// resistance, strictly below every neighbour a support. Points within
// tolerance (relative) of a cluster merge into its running mean. Each side
// is ranked by strength and cut to topK.
func FindSupportResistance(closes []float64, window int, tolerance float64, topK int) (supports, resistances []model.Level, err error) {
	if window <= 0 || topK <= 0 {
		return nil, nil, ErrInvalidPeriod
	}
	if len(closes) < 2*window+1 {
		return nil, nil, fmt.Errorf("levels(%d) over %d closes: %w", window, len(closes), ErrInsufficientData)
	}

	var sup, res []levelCluster
	for i := window; i < len(closes)-window; i++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			lo = math.Min(lo, closes[j])
			hi = math.Max(hi, closes[j])
		}
		switch {
		case hi < closes[i]:
			res = addToCluster(res, closes[i], tolerance)
		case lo > closes[i]:
			sup = addToCluster(sup, closes[i], tolerance)
		}
	}
	return rankLevels(sup, topK), rankLevels(res, topK), nil
}

func addToCluster(clusters []levelCluster, price, tolerance float64) []levelCluster {
	for i := range clusters {
		c := &clusters[i]
		if math.Abs(c.price-price) < tolerance*c.price {
			c.price = (c.price*float64(c.strength) + price) / float64(c.strength+1)
			c.strength++
			return clusters
		}
	}
	return append(clusters, levelCluster{price: price, strength: 1})
}

func rankLevels(clusters []levelCluster, topK int) []model.Level {
	sort.SliceStable(clusters, func(i, j int) bool { return clusters[i].strength > clusters[j].strength })
	if len(clusters) > topK {
		clusters = clusters[:topK]
	}
	out := make([]model.Level, len(clusters))
	for i, c := range clusters {
		out[i] = model.Level{Price: c.price, Strength: c.strength}
	}
	return out
}

// NearestSupport returns the highest support at or below price.
func NearestSupport(levels []model.Level, price float64) (model.Level, bool) {
	var best model.Level
	found := false
	for _, l := range levels {
		if l.Price <= price && (!found || l.Price > best.Price) {
			best, found = l, true
		}
	}
	return best, found
}

// NearestResistance returns the lowest resistance at or above price.
func NearestResistance(levels []model.Level, price float64) (model.Level, bool) {
	var best model.Level
	found := false
	for _, l := range levels {
		if l.Price >= price && (!found || l.Price < best.Price) {
			best, found = l, true
		}
	}
	return best, found
}
