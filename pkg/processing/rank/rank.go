package rank

import (
	"cmp"
	"slices"

	"github.com/raceview/raceplay/pkg/model"
)

// FloorSpeedMps bounds the speed used for gap estimation from below so a
// near-stationary leader doesn't blow up the division.
const FloorSpeedMps = 10.0

const kmhToMps = 3.6

// Compute orders all entities with a resolved index by descending
// (lap, cumulative distance); a car further along on a later lap ranks
// first. Ties resolve by ascending entity id for determinism.
//
// GapToAhead is estimated as distance gap / speed of the car ahead under a
// constant-speed assumption. It is a first-order approximation, never an
// exact timing measurement.
func Compute(
	series map[string]*model.SampleSeries,
	indices map[string]int,
) []model.RankEntry {
	entries := make([]model.RankEntry, 0, len(series))
	for id, s := range series {
		idx, ok := indices[id]
		if !ok {
			continue
		}
		sample := s.Samples[idx]
		entries = append(entries, model.RankEntry{
			EntityID: id,
			Lap:      sample.Lap,
			Distance: sample.Distance,
			Speed:    sample.Speed,
			Compound: sample.Compound,
			Status:   sample.Status,
		})
	}
	slices.SortFunc(entries, func(a, b model.RankEntry) int {
		if c := cmp.Compare(b.Lap, a.Lap); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Distance, a.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	for i := range entries {
		entries[i].Pos = i + 1
		if i == 0 {
			continue
		}
		ahead := entries[i-1]
		speedMps := ahead.Speed / kmhToMps
		if speedMps < FloorSpeedMps {
			speedMps = FloorSpeedMps
		}
		entries[i].GapToAhead = (ahead.Distance - entries[i].Distance) / speedMps
	}
	return entries
}
