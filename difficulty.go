package reprise

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"gonum.org/v1/gonum/stat"
)

// DifficultyConfig configures a DifficultyAdjuster.
// Zero values produce sensible defaults; see field comments.
type DifficultyConfig struct {
	AccuracyThreshold float64 // zero → 0.6; weighted accuracy below this raises difficulty
	AgeDecay          float64 // zero → 0.5; per-step weight decay, newest response weighs most
	Step              float64 // zero → 0.1; maximum difficulty movement per adjustment
	WindowSize        int     // zero → 20; responses kept per item
	BaselineSample    int     // zero → 256; peer latencies kept for the baseline
	MaxTracked        int     // zero → 4096; LRU capacity for per-item signals
}

func (c *DifficultyConfig) applyDefaults() {
	if c.AccuracyThreshold == 0 {
		c.AccuracyThreshold = 0.6
	}
	if c.AgeDecay == 0 {
		c.AgeDecay = 0.5
	}
	if c.Step == 0 {
		c.Step = 0.1
	}
	if c.WindowSize == 0 {
		c.WindowSize = 20
	}
	if c.BaselineSample == 0 {
		c.BaselineSample = 256
	}
	if c.MaxTracked == 0 {
		c.MaxTracked = 4096
	}
}

func (c DifficultyConfig) validate() error {
	if c.AccuracyThreshold < 0 || c.AccuracyThreshold > 1 {
		return fmt.Errorf("reprise: accuracy threshold %f out of range [0, 1]", c.AccuracyThreshold)
	}
	if c.AgeDecay <= 0 || c.AgeDecay > 1 {
		return fmt.Errorf("reprise: age decay %f out of range (0, 1]", c.AgeDecay)
	}
	if c.Step <= 0 || c.Step > 1 {
		return fmt.Errorf("reprise: step %f out of range (0, 1]", c.Step)
	}
	if c.WindowSize < 1 || c.BaselineSample < 1 || c.MaxTracked < 1 {
		return fmt.Errorf("reprise: window, baseline sample and max tracked must be positive")
	}
	return nil
}

// signalKey identifies a per-(user, item) difficulty track.
type signalKey struct {
	user, item uuid.UUID
}

// itemTrack is the bounded recent-response window and current signal for one
// item. Callers serialize updates per (user, item) key; tracks for distinct
// keys are independent.
type itemTrack struct {
	window []Response
	signal float64
}

// DifficultyAdjuster maintains a bounded [0,1] difficulty signal per
// (user, item) from exponentially age-weighted accuracy and latency relative
// to a peer baseline. Signals live in a bounded LRU and are advisory: the
// engines see them only through the explicit EffectiveQuality coupling.
type DifficultyAdjuster struct {
	cfg    DifficultyConfig
	tracks *lru.Cache[signalKey, *itemTrack]

	mu        sync.Mutex
	latencies []float64 // ring buffer of recent peer latencies, in seconds
	latNext   int
}

// NewDifficultyAdjuster creates an adjuster from the given config.
// Zero-value fields are filled with defaults; invalid values return an error.
func NewDifficultyAdjuster(cfg DifficultyConfig) (*DifficultyAdjuster, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	tracks, err := lru.New[signalKey, *itemTrack](cfg.MaxTracked)
	if err != nil {
		return nil, err
	}
	return &DifficultyAdjuster{
		cfg:       cfg,
		tracks:    tracks,
		latencies: make([]float64, 0, cfg.BaselineSample),
	}, nil
}

// Adjust computes the new difficulty from an ordered response history
// (oldest first) and the prior signal. Accuracy and latency are weighted by
// response age, newest heaviest. Difficulty rises when weighted accuracy
// falls below the threshold or weighted latency exceeds the peer baseline,
// and falls otherwise. The result is clamped to [0, 1].
func (a *DifficultyAdjuster) Adjust(history []Response, prior float64) (float64, error) {
	for _, r := range history {
		if err := r.Validate(); err != nil {
			return 0, err
		}
	}
	prior = clamp01(prior)
	if len(history) == 0 {
		return prior, nil
	}

	var accSum, latSum, weightSum float64
	weight := 1.0
	for i := len(history) - 1; i >= 0; i-- { // newest first
		r := history[i]
		if r.Successful() {
			accSum += weight
		}
		latSum += weight * r.Latency.Seconds()
		weightSum += weight
		weight *= a.cfg.AgeDecay
	}
	accuracy := accSum / weightSum
	latency := latSum / weightSum

	pressure := 0.0
	if accuracy < a.cfg.AccuracyThreshold {
		pressure += (a.cfg.AccuracyThreshold - accuracy) / a.cfg.AccuracyThreshold
	} else if a.cfg.AccuracyThreshold < 1 {
		pressure -= (accuracy - a.cfg.AccuracyThreshold) / (1 - a.cfg.AccuracyThreshold)
	}
	if baseline := a.baseline(); baseline > 0 {
		drift := latency/baseline - 1
		pressure += 0.5 * math.Max(-1, math.Min(1, drift))
	}

	return clamp01(prior + a.cfg.Step*pressure), nil
}

// Record folds one response into the item's window, contributes its latency
// to the peer baseline, and returns the recomputed signal. Callers serialize
// calls per (user, item) key.
func (a *DifficultyAdjuster) Record(user, item uuid.UUID, resp Response) (float64, error) {
	if err := resp.Validate(); err != nil {
		return 0, err
	}

	key := signalKey{user: user, item: item}
	track, ok := a.tracks.Get(key)
	if !ok {
		track = &itemTrack{signal: 0.5}
		a.tracks.Add(key, track)
	}

	track.window = append(track.window, resp.clone())
	if len(track.window) > a.cfg.WindowSize {
		track.window = track.window[len(track.window)-a.cfg.WindowSize:]
	}
	a.recordLatency(resp.Latency.Seconds())

	signal, err := a.Adjust(track.window, track.signal)
	if err != nil {
		return 0, err
	}
	track.signal = signal
	return signal, nil
}

// Signal returns the current difficulty for the key, or the 0.5 neutral
// prior when the item is untracked or evicted.
func (a *DifficultyAdjuster) Signal(user, item uuid.UUID) float64 {
	if track, ok := a.tracks.Get(signalKey{user: user, item: item}); ok {
		return track.signal
	}
	return 0.5
}

// Penalty maps the difficulty signal to a quality penalty in [0, 1].
// Only above-neutral difficulty penalizes; easy items are not boosted.
func (a *DifficultyAdjuster) Penalty(user, item uuid.UUID) float64 {
	return math.Max(0, (a.Signal(user, item)-0.5)*2)
}

func (a *DifficultyAdjuster) recordLatency(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.latencies) < a.cfg.BaselineSample {
		a.latencies = append(a.latencies, seconds)
		return
	}
	a.latencies[a.latNext] = seconds
	a.latNext = (a.latNext + 1) % a.cfg.BaselineSample
}

// baseline is the mean of recent peer latencies, 0 when no data exists yet.
func (a *DifficultyAdjuster) baseline() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.latencies) == 0 {
		return 0
	}
	return stat.Mean(a.latencies, nil)
}

// EffectiveQuality applies a difficulty penalty to a raw quality rating,
// rounding to the nearest rating and flooring at Blackout. This is the one
// explicit, opt-in coupling between the difficulty signal and the engines.
func EffectiveQuality(q Quality, penalty float64) Quality {
	v := int(math.Round(float64(q) - penalty))
	if v < int(Blackout) {
		v = int(Blackout)
	}
	if v > int(RecalledPerfect) {
		v = int(RecalledPerfect)
	}
	return Quality(v)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
