package calculator

import "fmt"

// CalculateVolumeRatio divides the newest volume by the mean of the newest
// `window` volumes. A zero mean (no volume data) yields 0.
func CalculateVolumeRatio(volumes []float64, window int) (float64, error) {
	avg, err := CalculateSMA(volumes, window)
	if err != nil {
		return 0, fmt.Errorf("volume ratio: %w", err)
	}
	if avg == 0 {
		return 0, nil
	}
	return volumes[len(volumes)-1] / avg, nil
}

// IsLowVolume reports whether the ratio sits below threshold. A zero ratio
// means the source carries no volume and never counts as low.
func IsLowVolume(ratio, threshold float64) bool {
	return ratio > 0 && ratio < threshold
}
