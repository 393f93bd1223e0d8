package model

// ClockState is the externally visible state of the playback clock.
type ClockState struct {
	CurrentTime float64 `json:"currentTime"`
	Rate        float64 `json:"rate"`
	Paused      bool    `json:"paused"`
}

// RankEntry is one row of the computed standings.
// GapToAhead is a first-order estimate (constant-speed assumption over the
// distance gap), not a measured timing value.
type RankEntry struct {
	Pos        int          `json:"pos"`
	EntityID   string       `json:"entityId"`
	Lap        int          `json:"lap"`
	Distance   float64      `json:"distance"`
	Speed      float64      `json:"speed"`
	Compound   TyreCompound `json:"compound"`
	Status     TrackStatus  `json:"status"`
	GapToAhead float64      `json:"gapToAhead"` // seconds, 0 for the leader
}

// Bounds is the bounding box of all recorded positions.
type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Snapshot is the read-only view handed to the rendering consumer.
// It is recomputed per tick; consumers must not cache it across ticks.
type Snapshot struct {
	SessionName string            `json:"sessionName"`
	Clock       ClockState        `json:"clock"`
	TotalLaps   int               `json:"totalLaps"`
	Standings   []RankEntry       `json:"standings"`
	Samples     map[string]Sample `json:"samples"` // current sample per entity
	Bounds      Bounds            `json:"bounds"`
}
