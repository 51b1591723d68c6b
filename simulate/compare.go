package simulate

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/still-creek/reprise"
)

// Summary reports how one algorithm scheduled a set of histories.
type Summary struct {
	Algorithm      reprise.Algorithm `json:"algorithm"`
	Items          int               `json:"items"`
	Reviews        int               `json:"reviews"`
	Lapses         int               `json:"lapses"`
	LapseRate      float64           `json:"lapse_rate"`
	MeanInterval   float64           `json:"mean_interval"`   // days
	StdDevInterval float64           `json:"stddev_interval"` // days; 0 with fewer than two reviews
	MaxInterval    int               `json:"max_interval"`    // days
	MeanRetention  float64           `json:"mean_retention"`  // modeled recall at the horizon
}

// Compare replays every history through each engine from fresh state and
// summarizes the resulting schedules. The retention column is the mean
// modeled recall across items at the horizon, the latest timestamp in the
// data. Returns ErrEmptyHistory when there is nothing to replay.
func Compare(engines []reprise.Engine, user uuid.UUID, histories map[uuid.UUID][]reprise.Response) ([]Summary, error) {
	total := 0
	var horizon time.Time
	for _, history := range histories {
		total += len(history)
		for _, resp := range history {
			if resp.Timestamp.After(horizon) {
				horizon = resp.Timestamp
			}
		}
	}
	if total == 0 {
		return nil, ErrEmptyHistory
	}

	// Deterministic item order regardless of map iteration.
	itemIDs := make([]uuid.UUID, 0, len(histories))
	for id := range histories {
		itemIDs = append(itemIDs, id)
	}
	sort.Slice(itemIDs, func(i, j int) bool {
		return itemIDs[i].String() < itemIDs[j].String()
	})

	summaries := make([]Summary, 0, len(engines))
	for _, engine := range engines {
		summary, err := runEngine(engine, user, itemIDs, histories, horizon)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Algorithm < summaries[j].Algorithm
	})
	return summaries, nil
}

func runEngine(engine reprise.Engine, user uuid.UUID, itemIDs []uuid.UUID,
	histories map[uuid.UUID][]reprise.Response, horizon time.Time) (Summary, error) {

	summary := Summary{Algorithm: engine.Algorithm()}
	var intervals []float64
	var retentionSum float64

	for _, itemID := range itemIDs {
		history := histories[itemID]
		if len(history) == 0 {
			continue
		}

		ordered := make([]reprise.Response, len(history))
		copy(ordered, history)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		})

		state, err := reprise.NewState(engine.Algorithm(), user, itemID, ordered[0].Timestamp)
		if err != nil {
			return Summary{}, err
		}

		for _, resp := range ordered {
			if resp.ItemID != itemID {
				return Summary{}, fmt.Errorf("%w: item %s, response %s",
					ErrItemMismatch, itemID, resp.ItemID)
			}
			coerced, err := Coerce(resp, engine.Algorithm())
			if err != nil {
				return Summary{}, err
			}
			state, err = engine.Review(state, coerced, resp.Timestamp)
			if err != nil {
				return Summary{}, err
			}

			summary.Reviews++
			if !coerced.Successful() {
				summary.Lapses++
			}
			intervals = append(intervals, float64(state.IntervalDays))
			if state.IntervalDays > summary.MaxInterval {
				summary.MaxInterval = state.IntervalDays
			}
		}

		summary.Items++
		retentionSum += reprise.EstimateRetention(state, horizon)
	}

	if summary.Reviews > 0 {
		summary.LapseRate = float64(summary.Lapses) / float64(summary.Reviews)
		summary.MeanInterval = stat.Mean(intervals, nil)
	}
	if len(intervals) > 1 {
		summary.StdDevInterval = stat.StdDev(intervals, nil)
	}
	if summary.Items > 0 {
		summary.MeanRetention = retentionSum / float64(summary.Items)
	}
	return summary, nil
}
