package simulate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/still-creek/reprise"
)

// Sentinel errors for the simulate package.
var (
	ErrItemMismatch = errors.New("simulate: response item does not match state item")
	ErrEmptyHistory = errors.New("simulate: no response history")
)

// Coerce re-expresses a response in the given algorithm's input kind. A
// quality rating becomes correctness via the >= 3 success rule; correctness
// becomes RecalledHesitant or Incorrect. Responses already of the right kind
// pass through unchanged.
func Coerce(resp reprise.Response, alg reprise.Algorithm) (reprise.Response, error) {
	if err := resp.Validate(); err != nil {
		return reprise.Response{}, err
	}
	if resp.Kind() == alg {
		return resp, nil
	}
	switch alg {
	case reprise.Leitner:
		return reprise.CorrectnessResponse(resp.ItemID, resp.Quality.Successful(), resp.Latency, resp.Timestamp), nil
	case reprise.SM2:
		q := reprise.Incorrect
		if *resp.Correct {
			q = reprise.RecalledHesitant
		}
		return reprise.QualityResponse(resp.ItemID, q, resp.Latency, resp.Timestamp), nil
	default:
		return reprise.Response{}, fmt.Errorf("%w: %s", reprise.ErrUnknownAlgorithm, alg)
	}
}

// Replay rebuilds the item's scheduling state by applying the history in
// timestamp order, using each response's timestamp as the review day.
// Returns ErrItemMismatch if any response belongs to a different item.
// Replay is deterministic: identical inputs yield an identical final state.
func Replay(engine reprise.Engine, state reprise.ItemState, history []reprise.Response) (reprise.ItemState, error) {
	ordered := make([]reprise.Response, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	st := state
	for _, resp := range ordered {
		if resp.ItemID != state.ItemID {
			return reprise.ItemState{}, fmt.Errorf("%w: state %s, response %s",
				ErrItemMismatch, state.ItemID, resp.ItemID)
		}
		coerced, err := Coerce(resp, engine.Algorithm())
		if err != nil {
			return reprise.ItemState{}, err
		}
		st, err = engine.Review(st, coerced, resp.Timestamp)
		if err != nil {
			return reprise.ItemState{}, err
		}
	}
	return st, nil
}
