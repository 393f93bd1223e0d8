package model

// RawSample is one unprocessed telemetry record as delivered by a provider.
// Records may arrive unordered and with duplicate timestamps; missing
// channels are zero values.
type RawSample struct {
	TS    float64 `json:"ts"` // provider clock, seconds
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
	Gear  int     `json:"gear"`
	Drs   int     `json:"drs"`
}

// Lap is one entry of the per-entity lap metadata, ordered by StartTime.
type Lap struct {
	LapNumber int     `json:"lapNumber"`
	StartTime float64 `json:"startTime"` // provider clock, seconds
	Compound  string  `json:"compound"`
	Sector1   float64 `json:"sector1"` // 0 until the sector completed
	Sector2   float64 `json:"sector2"`
	Sector3   float64 `json:"sector3"`
	PitIn     bool    `json:"pitIn"`
	PitOut    bool    `json:"pitOut"`
}

// ParseCompound maps the metadata compound tag to a TyreCompound.
// Unrecognized tags map to CompoundUnknown.
func ParseCompound(arg string) TyreCompound {
	switch TyreCompound(arg) {
	case CompoundSoft, CompoundMedium, CompoundHard, CompoundIntermediate, CompoundWet:
		return TyreCompound(arg)
	default:
		return CompoundUnknown
	}
}
