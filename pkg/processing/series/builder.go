package series

import (
	"errors"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/raceview/raceplay/log"
	"github.com/raceview/raceplay/pkg/model"
)

// ErrEmptyBatch is returned when a raw batch collapses to zero samples.
var ErrEmptyBatch = errors.New("empty sample batch")

const (
	// a car can only be judged stationary once this many samples exist
	outMinIndex = 10
	// number of preceding samples inspected by the stationary check
	outWindow = 20
	// x-axis spread below which the car counts as stationary (track units)
	outSpreadThreshold = 1.0
)

// StationaryFunc decides whether the positional window of preceding samples
// describes a stationary car. The default checks the x-axis spread; it is a
// heuristic proxy for "retired" and can misclassify a car parked briefly in
// a pit box.
type StationaryFunc func(window []model.Position) bool

// DefaultStationary flags the car when the x-coordinate spread of the
// window stays below outSpreadThreshold.
func DefaultStationary(window []model.Position) bool {
	if len(window) == 0 {
		return false
	}
	minX, maxX := window[0].X, window[0].X
	for _, p := range window[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	return maxX-minX < outSpreadThreshold
}

type Builder struct {
	stationary StationaryFunc
	l          *log.Logger
}

type BuilderOption func(b *Builder)

func WithStationaryFunc(f StationaryFunc) BuilderOption {
	return func(b *Builder) {
		b.stationary = f
	}
}

func WithLogger(l *log.Logger) BuilderOption {
	return func(b *Builder) {
		b.l = l
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		stationary: DefaultStationary,
		l:          log.Default().Named("series"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns an unordered raw batch plus lap metadata into a SampleSeries.
// Duplicate timestamps are collapsed (first occurrence wins), timestamps are
// rebased to elapsed seconds from the first sample and each sample gets its
// lap, tyre, sector and status assignment. laps must be ordered by StartTime.
func (b *Builder) Build(
	entityID string,
	raw []model.RawSample,
	laps []model.Lap,
) (*model.SampleSeries, error) {
	ordered := make([]model.RawSample, len(raw))
	copy(ordered, raw)
	// stable keeps the original input order on equal timestamps
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TS < ordered[j].TS
	})
	deduped := dedupe(ordered)
	if len(deduped) == 0 {
		return nil, ErrEmptyBatch
	}
	if n := len(ordered) - len(deduped); n > 0 {
		b.l.Debug("dropped duplicate timestamps",
			log.String("entity", entityID), log.Int("dropped", n))
	}

	lapStarts := lo.Map(laps, func(l model.Lap, _ int) float64 { return l.StartTime })

	t0 := deduped[0].TS
	samples := make([]model.Sample, 0, len(deduped))
	for i := range deduped {
		r := deduped[i]
		sample := model.Sample{
			T:        r.TS - t0,
			Pos:      model.Position{X: r.X, Y: r.Y},
			Speed:    r.Speed,
			Gear:     r.Gear,
			DrsRaw:   r.Drs,
			Compound: model.CompoundUnknown,
			Status:   model.StatusOnTrack,
		}
		if lapIdx := latestLapAt(lapStarts, r.TS); lapIdx >= 0 {
			lap := laps[lapIdx]
			sample.Lap = lap.LapNumber
			sample.Compound = model.ParseCompound(lap.Compound)
			sample.Sectors = [3]float64{lap.Sector1, lap.Sector2, lap.Sector3}
			if lap.PitIn || lap.PitOut {
				sample.Status = model.StatusPit
			}
		}
		if i > 0 {
			prev := samples[i-1]
			sample.Distance = prev.Distance + euclidean(prev.Pos, sample.Pos)
		}
		// the stationary check overrides a PIT assignment
		if i > outMinIndex {
			start := i - outWindow
			if start < 0 {
				start = 0
			}
			if b.stationary(positionsOf(samples[start:i])) {
				sample.Status = model.StatusOut
			}
		}
		samples = append(samples, sample)
	}

	return &model.SampleSeries{EntityID: entityID, Samples: samples}, nil
}

// dedupe removes exact duplicate timestamps, keeping the first occurrence.
// Input must already be sorted by TS.
func dedupe(ordered []model.RawSample) []model.RawSample {
	out := make([]model.RawSample, 0, len(ordered))
	for i := range ordered {
		if i > 0 && ordered[i].TS == ordered[i-1].TS {
			continue
		}
		out = append(out, ordered[i])
	}
	return out
}

// latestLapAt returns the index of the latest lap whose start time is <= ts,
// -1 if ts is earlier than the first lap start. lapStarts is ordered, so a
// binary search finds the insertion point. Equal start times resolve to the
// last of the tied laps.
func latestLapAt(lapStarts []float64, ts float64) int {
	idx := sort.Search(len(lapStarts), func(i int) bool { return lapStarts[i] > ts })
	return idx - 1
}

func euclidean(a, b model.Position) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func positionsOf(samples []model.Sample) []model.Position {
	return lo.Map(samples, func(s model.Sample, _ int) model.Position { return s.Pos })
}
