package provider

import (
	"context"

	"github.com/raceview/raceplay/pkg/model"
)

// EntityData is one entity's raw batch plus its lap metadata.
type EntityData struct {
	EntityID string            `json:"entityId"`
	Samples  []model.RawSample `json:"samples"`
	Laps     []model.Lap       `json:"laps"`
}

// SessionData is the full result of one acquisition: every tracked entity
// with its unordered raw batch, plus optional display decorations.
type SessionData struct {
	Name     string            `json:"name"`
	Entities []EntityData      `json:"entities"`
	Colors   map[string]string `json:"colors,omitempty"` // entityId -> hex color
}

// TelemetryProvider delivers the recorded telemetry of one session as a
// single blocking call. There is no streaming or partial contract; caching
// and transport concerns live entirely behind this interface.
type TelemetryProvider interface {
	Fetch(ctx context.Context) (*SessionData, error)
}
