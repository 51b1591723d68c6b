package reprise

import (
	"bytes"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SchedulerConfig configures a ReviewScheduler.
// Zero values produce sensible defaults; see field comments.
type SchedulerConfig struct {
	Engines  []Engine            // nil → SM2 plus Leitner with the default schedule
	Adjuster *DifficultyAdjuster // optional; enables the quality-penalty coupling
	Detector *WeakTopicDetector  // optional; fed per-topic outcomes
	Logger   *zap.Logger         // nil → zap.NewNop()
}

// ReviewScheduler selects the next due item and routes response events to
// the engine matching each state's variant tag. It holds no per-item state
// of its own: the caller loads and persists ItemStates through its store.
type ReviewScheduler struct {
	engines  map[Algorithm]Engine
	adjuster *DifficultyAdjuster
	detector *WeakTopicDetector
	log      *zap.Logger
}

// NewReviewScheduler creates a scheduler from the given config.
// Zero-value fields are filled with defaults; invalid values return an error.
func NewReviewScheduler(cfg SchedulerConfig) (*ReviewScheduler, error) {
	engines := cfg.Engines
	if engines == nil {
		leitner, err := NewLeitnerEngine(nil)
		if err != nil {
			return nil, err
		}
		engines = []Engine{SM2Engine{}, leitner}
	}

	byVariant := make(map[Algorithm]Engine, len(engines))
	for _, e := range engines {
		alg := e.Algorithm()
		if !alg.isValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
		}
		if _, dup := byVariant[alg]; dup {
			return nil, fmt.Errorf("reprise: duplicate engine for %s", alg)
		}
		byVariant[alg] = e
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &ReviewScheduler{
		engines:  byVariant,
		adjuster: cfg.Adjuster,
		detector: cfg.Detector,
		log:      log,
	}, nil
}

// DueItem pairs an item with its scheduling state, as produced by the state
// store's ListDue.
type DueItem struct {
	Item  Item
	State ItemState
}

// NextItem selects the due candidate to show next: earliest due date first,
// ties broken by lowest repetition count (less-mastered first), then by item
// ID for determinism. The second return is false when nothing is due, which
// is a normal outcome, not an error.
func (s *ReviewScheduler) NextItem(candidates []DueItem, today time.Time) (DueItem, bool) {
	best := -1
	for i, c := range candidates {
		if c.State.Due.After(today) {
			continue
		}
		if best < 0 || dueBefore(c, candidates[best]) {
			best = i
		}
	}
	if best < 0 {
		return DueItem{}, false
	}
	return candidates[best], true
}

func dueBefore(a, b DueItem) bool {
	if !a.State.Due.Equal(b.State.Due) {
		return a.State.Due.Before(b.State.Due)
	}
	if a.State.Repetitions != b.State.Repetitions {
		return a.State.Repetitions < b.State.Repetitions
	}
	return bytes.Compare(a.Item.ID[:], b.Item.ID[:]) < 0
}

// Outcome is what RecordResponse hands back to the caller: the state to
// persist, a short human-readable summary, and the modeled recall
// probability at the new due date.
type Outcome struct {
	State     ItemState
	Message   string
	Retention float64
}

// RecordResponse validates the event, dispatches it to the engine matching
// the state's variant, updates the difficulty and weak-topic side
// aggregates, and returns the new state. On any error the state and the
// aggregates are untouched; errors always propagate so the caller controls
// user-visible messaging.
func (s *ReviewScheduler) RecordResponse(item Item, state ItemState, resp Response, today time.Time) (Outcome, error) {
	if err := resp.Validate(); err != nil {
		return Outcome{}, err
	}
	engine, ok := s.engines[state.Algorithm]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, state.Algorithm)
	}
	if resp.Kind() != state.Algorithm {
		return Outcome{}, fmt.Errorf("%w: %s response for %s state",
			ErrAlgorithmMismatch, resp.Kind(), state.Algorithm)
	}
	// Rejection must happen before any aggregate is touched, so the topic is
	// checked here rather than left to the detector.
	if s.detector != nil && item.Topic == "" {
		return Outcome{}, fmt.Errorf("%w: empty topic", ErrInvalidResponse)
	}

	// Opt-in difficulty coupling: scale SM2 quality by the current penalty
	// before dispatch. The raw response still feeds the side aggregates.
	effective := resp
	if s.adjuster != nil && resp.Quality != nil {
		q := EffectiveQuality(*resp.Quality, s.adjuster.Penalty(state.UserID, item.ID))
		effective = resp.clone()
		effective.Quality = &q
	}

	newState, err := engine.Review(state, effective, today)
	if err != nil {
		return Outcome{}, err
	}

	if s.adjuster != nil {
		if _, err := s.adjuster.Record(state.UserID, item.ID, resp); err != nil {
			return Outcome{}, err
		}
	}
	if s.detector != nil {
		if err := s.detector.Record(state.UserID, item.Topic, resp.Successful(), resp.Latency); err != nil {
			return Outcome{}, err
		}
	}

	retention := EstimateRetention(newState, newState.Due)

	s.log.Debug("response recorded",
		zap.String("item", item.ID.String()),
		zap.String("algorithm", newState.Algorithm.String()),
		zap.Bool("successful", resp.Successful()),
		zap.Int("interval_days", newState.IntervalDays),
		zap.Time("due", newState.Due),
	)

	return Outcome{
		State:     newState,
		Message:   reviewMessage(newState),
		Retention: retention,
	}, nil
}

func reviewMessage(s ItemState) string {
	if s.IntervalDays == 1 {
		return "Next review in 1 day"
	}
	return fmt.Sprintf("Next review in %d days", s.IntervalDays)
}
