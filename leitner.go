package reprise

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// BoxSchedule maps the 1-based Leitner box index to a review interval in
// days. It is configuration, not logic: any table works as long as it is
// non-empty and strictly increasing.
type BoxSchedule []int

// DefaultBoxSchedule returns the standard five-box cadence.
func DefaultBoxSchedule() BoxSchedule {
	return BoxSchedule{1, 3, 7, 14, 30}
}

// Boxes returns the number of boxes N.
func (b BoxSchedule) Boxes() int { return len(b) }

// Validate checks that the schedule is non-empty, starts at one day or more,
// and is strictly increasing in box index.
func (b BoxSchedule) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSchedule)
	}
	if b[0] < 1 {
		return fmt.Errorf("%w: box 1 interval %d must be at least 1 day", ErrInvalidSchedule, b[0])
	}
	for i := 1; i < len(b); i++ {
		if b[i] <= b[i-1] {
			return fmt.Errorf("%w: box %d interval %d not greater than box %d interval %d",
				ErrInvalidSchedule, i+1, b[i], i, b[i-1])
		}
	}
	return nil
}

type boxScheduleDoc struct {
	Boxes []int `yaml:"boxes"`
}

// ParseBoxSchedule reads a schedule from YAML of the form:
//
//	boxes: [1, 3, 7, 14, 30]
func ParseBoxSchedule(data []byte) (BoxSchedule, error) {
	var doc boxScheduleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	schedule := BoxSchedule(doc.Boxes)
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

// LeitnerEngine implements box-based promotion scheduling. A correct answer
// promotes the item one box (capped at N); a wrong answer sends it back to
// box 1, a full reset rather than a decrement. Methods are pure over their
// arguments and safe for concurrent use.
type LeitnerEngine struct {
	schedule BoxSchedule
}

// NewLeitnerEngine creates an engine with the given schedule.
// A nil schedule uses DefaultBoxSchedule.
func NewLeitnerEngine(schedule BoxSchedule) (*LeitnerEngine, error) {
	if schedule == nil {
		schedule = DefaultBoxSchedule()
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &LeitnerEngine{schedule: schedule}, nil
}

// Algorithm implements Engine.
func (*LeitnerEngine) Algorithm() Algorithm { return Leitner }

// Boxes returns the number of boxes N in the configured schedule.
func (e *LeitnerEngine) Boxes() int { return e.schedule.Boxes() }

// Review implements Engine. The response must carry a correctness flag.
func (e *LeitnerEngine) Review(state ItemState, resp Response, today time.Time) (ItemState, error) {
	if err := resp.Validate(); err != nil {
		return ItemState{}, err
	}
	if resp.Correct == nil {
		return ItemState{}, fmt.Errorf("%w: quality response for Leitner state", ErrAlgorithmMismatch)
	}
	return e.Update(state, *resp.Correct, today)
}

// Update applies one Leitner review to the state and returns the new state.
// Repetitions counts consecutive correct answers and resets with the box.
// The input state is not mutated.
func (e *LeitnerEngine) Update(state ItemState, correct bool, today time.Time) (ItemState, error) {
	if state.Algorithm != Leitner {
		return ItemState{}, fmt.Errorf("%w: correctness for %s state", ErrAlgorithmMismatch, state.Algorithm)
	}

	s := state.clone()
	box := state.Box
	if box < 1 {
		box = 1
	}
	if box > e.schedule.Boxes() {
		box = e.schedule.Boxes()
	}

	if correct {
		if box < e.schedule.Boxes() {
			box++
		}
		s.Repetitions = state.Repetitions + 1
	} else {
		box = 1
		s.Repetitions = 0
	}

	s.Box = box
	s.IntervalDays = e.schedule[box-1]
	s.Due = today.AddDate(0, 0, s.IntervalDays)
	s.setLastReview(today)
	return s, nil
}
