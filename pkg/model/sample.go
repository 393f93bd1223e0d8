package model

// tyre compound tags as delivered by the lap metadata
type TyreCompound string

const (
	CompoundSoft         TyreCompound = "SOFT"
	CompoundMedium       TyreCompound = "MEDIUM"
	CompoundHard         TyreCompound = "HARD"
	CompoundIntermediate TyreCompound = "INTERMEDIATE"
	CompoundWet          TyreCompound = "WET"
	CompoundUnknown      TyreCompound = "UNKNOWN"
)

// track status of a car at a sample
type TrackStatus string

const (
	StatusOnTrack TrackStatus = "ON_TRACK"
	StatusPit     TrackStatus = "PIT"
	StatusOut     TrackStatus = "OUT"
)

// raw DRS channel values >= 8 mean the flap is open
const DrsOpenValue = 8

// Position is a point in track-plane coordinates
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample is one telemetry instant of one entity.
// T is in elapsed seconds since the entity's first sample.
type Sample struct {
	T        float64      `json:"t"`
	Pos      Position     `json:"pos"`
	Speed    float64      `json:"speed"` // km/h
	Gear     int          `json:"gear"`
	DrsRaw   int          `json:"drs"`
	Lap      int          `json:"lap"` // 0 = before first recorded lap
	Sectors  [3]float64   `json:"sectors"`
	Compound TyreCompound `json:"compound"`
	Status   TrackStatus  `json:"status"`
	Distance float64      `json:"distance"` // cumulative path length since first sample
}

func (s *Sample) DrsOpen() bool {
	return s.DrsRaw >= DrsOpenValue
}

// SampleSeries holds the built, ordered samples of one entity.
// Samples are strictly increasing in T, Distance and Lap are non-decreasing.
type SampleSeries struct {
	EntityID string   `json:"entityId"`
	Color    string   `json:"color,omitempty"` // display decoration, not used by core logic
	Samples  []Sample `json:"samples"`
}

func (s *SampleSeries) Len() int { return len(s.Samples) }

func (s *SampleSeries) MinTime() float64 { return s.Samples[0].T }

func (s *SampleSeries) MaxTime() float64 { return s.Samples[len(s.Samples)-1].T }

// MaxLap returns the highest lap number seen in the series.
// Lap numbers are non-decreasing, so this is the last sample's lap.
func (s *SampleSeries) MaxLap() int { return s.Samples[len(s.Samples)-1].Lap }
