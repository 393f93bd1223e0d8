package replay

import (
	"errors"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/raceview/raceplay/log"
	"github.com/raceview/raceplay/pkg/model"
	"github.com/raceview/raceplay/pkg/processing/clock"
	"github.com/raceview/raceplay/pkg/processing/rank"
	"github.com/raceview/raceplay/pkg/processing/timeline"
)

var (
	// ErrNoEntities means not a single entity survived the build.
	ErrNoEntities = errors.New("no entities available for session")
	// ErrUnknownEntity is returned for lookups of entities not in the session.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Session owns the immutable set of sample series, the playback clock and
// the per-entity resolved indices. All mutation happens through Tick, Seek,
// SetRate and TogglePause, driven by a single caller; the series themselves
// are never modified after construction.
type Session struct {
	name      string
	series    map[string]*model.SampleSeries
	clock     *clock.PlaybackClock
	indices   map[string]int
	totalLaps int
	bounds    model.Bounds
	l         *log.Logger
}

type SessionOption func(s *Session)

func WithClockOptions(opts ...clock.Option) SessionOption {
	return func(s *Session) {
		s.clock = clock.New(s.clock.CurrentTime(), s.maxTime(), opts...)
	}
}

// WithColors attaches display colors (entityId -> hex) to the series.
// Purely decoration, ignored by all core logic.
func WithColors(colors map[string]string) SessionOption {
	return func(s *Session) {
		for id, c := range colors {
			if ser, ok := s.series[id]; ok {
				ser.Color = c
			}
		}
	}
}

// NewSession creates a session over the given built series. The clock
// starts playing at the earliest sample time across all series.
func NewSession(
	name string,
	seriesList []*model.SampleSeries,
	opts ...SessionOption,
) (*Session, error) {
	if len(seriesList) == 0 {
		return nil, ErrNoEntities
	}
	s := &Session{
		name:    name,
		series:  make(map[string]*model.SampleSeries, len(seriesList)),
		indices: make(map[string]int, len(seriesList)),
		l:       log.Default().Named("session"),
	}
	for _, ser := range seriesList {
		s.series[ser.EntityID] = ser
		s.totalLaps = max(s.totalLaps, ser.MaxLap())
	}
	s.bounds = computeBounds(seriesList)
	s.clock = clock.New(s.minTime(), s.maxTime())
	for _, opt := range opts {
		opt(s)
	}
	s.resolveIndices()
	s.l.Info("session created",
		log.String("name", name),
		log.Int("entities", len(s.series)),
		log.Int("totalLaps", s.totalLaps),
		log.Float64("minTime", s.minTime()),
		log.Float64("maxTime", s.maxTime()))
	return s, nil
}

// Tick advances the virtual clock by the wall-clock delta and re-resolves
// every entity's current sample index. Not reentrant; single caller.
func (s *Session) Tick(wallDt float64) {
	s.clock.Advance(wallDt)
	s.resolveIndices()
}

// Seek moves the clock by delta seconds and re-resolves indices.
func (s *Session) Seek(delta float64) {
	s.clock.Seek(delta)
	s.resolveIndices()
}

func (s *Session) SetRate(rate float64) { s.clock.SetRate(rate) }
func (s *Session) TogglePause()         { s.clock.TogglePause() }

func (s *Session) Clock() model.ClockState { return s.clock.State() }
func (s *Session) TotalLaps() int          { return s.totalLaps }
func (s *Session) Bounds() model.Bounds    { return s.bounds }
func (s *Session) Name() string            { return s.name }

// Entities returns the entity ids in deterministic order.
func (s *Session) Entities() []string {
	ids := lo.Keys(s.series)
	slices.Sort(ids)
	return ids
}

// CurrentSample returns the resolved sample of one entity.
func (s *Session) CurrentSample(entityID string) (model.Sample, error) {
	ser, ok := s.series[entityID]
	if !ok {
		return model.Sample{}, ErrUnknownEntity
	}
	return ser.Samples[s.indices[entityID]], nil
}

// Series returns an entity's series for read-only use (track geometry,
// color decoration).
func (s *Session) Series(entityID string) (*model.SampleSeries, error) {
	ser, ok := s.series[entityID]
	if !ok {
		return nil, ErrUnknownEntity
	}
	return ser, nil
}

// Ranking computes the standings for the current resolved indices. The
// result is only valid until the next Tick or Seek.
func (s *Session) Ranking() []model.RankEntry {
	return rank.Compute(s.series, s.indices)
}

// Snapshot composes the read-only view for the rendering consumer.
func (s *Session) Snapshot() *model.Snapshot {
	samples := make(map[string]model.Sample, len(s.series))
	for id, ser := range s.series {
		samples[id] = ser.Samples[s.indices[id]]
	}
	return &model.Snapshot{
		SessionName: s.name,
		Clock:       s.clock.State(),
		TotalLaps:   s.totalLaps,
		Standings:   s.Ranking(),
		Samples:     samples,
		Bounds:      s.bounds,
	}
}

// SelectNext returns the entity ranked after current, wrapping around.
// An unknown current id selects the leader.
func (s *Session) SelectNext(current string) string {
	return s.selectOffset(current, 1)
}

// SelectPrev returns the entity ranked before current, wrapping around.
func (s *Session) SelectPrev(current string) string {
	return s.selectOffset(current, -1)
}

func (s *Session) selectOffset(current string, offset int) string {
	ranking := s.Ranking()
	if len(ranking) == 0 {
		return ""
	}
	idx := slices.IndexFunc(ranking, func(e model.RankEntry) bool {
		return e.EntityID == current
	})
	if idx == -1 {
		return ranking[0].EntityID
	}
	n := len(ranking)
	return ranking[(idx+offset+n)%n].EntityID
}

func (s *Session) resolveIndices() {
	queryTime := s.clock.CurrentTime()
	for id, ser := range s.series {
		s.indices[id] = timeline.Resolve(ser, queryTime)
	}
}

func (s *Session) minTime() float64 {
	ret := math.Inf(1)
	for _, ser := range s.series {
		ret = math.Min(ret, ser.MinTime())
	}
	return ret
}

func (s *Session) maxTime() float64 {
	ret := math.Inf(-1)
	for _, ser := range s.series {
		ret = math.Max(ret, ser.MaxTime())
	}
	return ret
}

func computeBounds(seriesList []*model.SampleSeries) model.Bounds {
	b := model.Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	for _, ser := range seriesList {
		for i := range ser.Samples {
			p := ser.Samples[i].Pos
			b.MinX = math.Min(b.MinX, p.X)
			b.MaxX = math.Max(b.MaxX, p.X)
			b.MinY = math.Min(b.MinY, p.Y)
			b.MaxY = math.Max(b.MaxY, p.Y)
		}
	}
	return b
}
