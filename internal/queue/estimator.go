package queue

import "time"

const estimatorWindow = 32

// waitEstimator tracks a moving average of observed enqueue-to-match waits
// per preset. It is owned by the pool worker and needs no locking.
type waitEstimator struct {
	samples map[Preset][]float64
}

func newWaitEstimator() *waitEstimator {
	return &waitEstimator{
		samples: make(map[Preset][]float64),
	}
}

// Baselines reported before any match has completed for a preset. Wider
// presets trade precision for speed, so they start lower.
var defaultEstimates = map[Preset]time.Duration{
	PresetStrict:   90 * time.Second,
	PresetBalanced: 45 * time.Second,
	PresetWide:     20 * time.Second,
}

// observe records a completed wait for a preset, keeping a bounded window.
func (e *waitEstimator) observe(preset Preset, wait time.Duration) {
	window := append(e.samples[preset], wait.Seconds())
	if len(window) > estimatorWindow {
		window = window[len(window)-estimatorWindow:]
	}
	e.samples[preset] = window
}

// estimate returns the current moving average for a preset, falling back
// to the preset baseline when no matches have been observed yet.
func (e *waitEstimator) estimate(preset Preset) time.Duration {
	window := e.samples[preset]
	if len(window) == 0 {
		return defaultEstimates[preset]
	}
	var sum float64
	for _, s := range window {
		sum += s
	}
	return time.Duration(sum / float64(len(window)) * float64(time.Second))
}
