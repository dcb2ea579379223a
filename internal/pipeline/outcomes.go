package pipeline

import (
	"slices"
	"sync"
	"time"
)

// Outcome is what one reduction did to its document.
type Outcome struct {
	Duration    time.Duration
	InputWeight int
	Weight      int
	Fits        bool
	Iterations  int
}

// ratio is the share of the input weight that survived packing.
func (o Outcome) ratio() float64 {
	if o.InputWeight <= 0 {
		return 1
	}
	return float64(o.Weight) / float64(o.InputWeight)
}

// Distribution summarizes a set of values.
type Distribution struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
}

// OutcomeSnapshot aggregates the outcomes inside the window.
type OutcomeSnapshot struct {
	Count       int          `json:"count"`
	OverBudget  int          `json:"over_budget"`
	FitRate     float64      `json:"fit_rate"`
	WeightRatio Distribution `json:"weight_ratio"` // output weight / input weight
	Iterations  Distribution `json:"iterations"`
	LatencyMs   Distribution `json:"latency_ms"`
}

type timedOutcome struct {
	at time.Time
	Outcome
}

// OutcomeWindow keeps the reductions of the last window, oldest first.
type OutcomeWindow struct {
	mu       sync.Mutex
	window   time.Duration
	outcomes []timedOutcome
	now      func() time.Time
}

func NewOutcomeWindow(window time.Duration) *OutcomeWindow {
	if window <= 0 {
		window = time.Hour
	}
	return &OutcomeWindow{window: window, now: time.Now}
}

// Add records o at the current time.
func (w *OutcomeWindow) Add(o Outcome) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	w.expire(now)
	w.outcomes = append(w.outcomes, timedOutcome{at: now, Outcome: o})
}

// Snapshot aggregates the outcomes still inside the window.
func (w *OutcomeWindow) Snapshot() OutcomeSnapshot {
	w.mu.Lock()
	w.expire(w.now())
	outcomes := slices.Clone(w.outcomes)
	w.mu.Unlock()

	var snap OutcomeSnapshot
	if len(outcomes) == 0 {
		return snap
	}

	ratios := make([]float64, len(outcomes))
	iterations := make([]float64, len(outcomes))
	latencies := make([]float64, len(outcomes))
	for i, o := range outcomes {
		if !o.Fits {
			snap.OverBudget++
		}
		ratios[i] = o.ratio()
		iterations[i] = float64(o.Iterations)
		latencies[i] = float64(o.Duration) / float64(time.Millisecond)
	}
	snap.Count = len(outcomes)
	snap.FitRate = float64(snap.Count-snap.OverBudget) / float64(snap.Count)
	snap.WeightRatio = distribution(ratios)
	snap.Iterations = distribution(iterations)
	snap.LatencyMs = distribution(latencies)
	return snap
}

// expire drops outcomes older than the window. Callers hold w.mu.
func (w *OutcomeWindow) expire(now time.Time) {
	cutoff := now.Add(-w.window)
	i := slices.IndexFunc(w.outcomes, func(o timedOutcome) bool { return !o.at.Before(cutoff) })
	if i < 0 {
		i = len(w.outcomes)
	}
	w.outcomes = append(w.outcomes[:0], w.outcomes[i:]...)
}

// distribution sorts values in place.
func distribution(values []float64) Distribution {
	slices.Sort(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Distribution{
		Min:  values[0],
		Max:  values[len(values)-1],
		Mean: sum / float64(len(values)),
		P50:  quantile(values, 0.50),
		P95:  quantile(values, 0.95),
		P99:  quantile(values, 0.99),
	}
}

// quantile interpolates between the two nearest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (sorted[i+1]-sorted[i])*(pos-float64(i))
}
