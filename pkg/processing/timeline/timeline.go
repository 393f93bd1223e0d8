package timeline

import (
	"sort"

	"github.com/raceview/raceplay/pkg/model"
)

// Resolve returns the greatest index i with Samples[i].T <= queryTime.
// Query times before the first sample resolve to 0; query times beyond the
// last sample resolve to the last index (the entity stays frozen at its
// final known state). Runs in O(log n) over the strictly increasing T axis.
func Resolve(s *model.SampleSeries, queryTime float64) int {
	idx := sort.Search(len(s.Samples), func(i int) bool {
		return s.Samples[i].T > queryTime
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}
