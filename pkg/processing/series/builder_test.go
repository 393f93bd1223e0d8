//nolint:funlen // ok for tests
package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raceview/raceplay/pkg/model"
)

func rawAt(ts, x, y float64) model.RawSample {
	return model.RawSample{TS: ts, X: x, Y: y}
}

func TestBuilder_SortsAndRebases(t *testing.T) {
	raw := []model.RawSample{
		rawAt(102, 2, 0),
		rawAt(100, 0, 0),
		rawAt(101, 1, 0),
	}
	got, err := NewBuilder().Build("44", raw, nil)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []float64{0, 1, 2}, sampleTimes(got))
	// rebased order follows the timestamps, not the input order
	assert.Equal(t, 0.0, got.Samples[0].Pos.X)
	assert.Equal(t, 2.0, got.Samples[2].Pos.X)
}

func TestBuilder_DuplicateTimestampsFirstWins(t *testing.T) {
	raw := []model.RawSample{
		rawAt(0, 10, 0),
		rawAt(0, 99, 0),
		rawAt(1, 11, 0),
	}
	got, err := NewBuilder().Build("44", raw, nil)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []float64{0, 1}, sampleTimes(got))
	assert.Equal(t, 10.0, got.Samples[0].Pos.X)
}

func TestBuilder_EmptyBatch(t *testing.T) {
	_, err := NewBuilder().Build("44", []model.RawSample{}, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestBuilder_LapAssignment(t *testing.T) {
	laps := []model.Lap{
		{LapNumber: 1, StartTime: 10, Compound: "SOFT", Sector1: 30.5},
		{LapNumber: 2, StartTime: 20, Compound: "MEDIUM"},
	}
	raw := []model.RawSample{
		rawAt(5, 0, 0),
		rawAt(10, 1, 0),
		rawAt(15, 2, 0),
		rawAt(25, 3, 0),
	}
	got, err := NewBuilder().Build("44", raw, laps)
	require.NoError(t, err)

	// before the first lap start
	assert.Equal(t, 0, got.Samples[0].Lap)
	assert.Equal(t, model.CompoundUnknown, got.Samples[0].Compound)
	assert.Equal(t, [3]float64{0, 0, 0}, got.Samples[0].Sectors)
	// exact hit on the lap start belongs to that lap
	assert.Equal(t, 1, got.Samples[1].Lap)
	assert.Equal(t, model.CompoundSoft, got.Samples[1].Compound)
	assert.Equal(t, [3]float64{30.5, 0, 0}, got.Samples[1].Sectors)
	// latest qualifying lap wins
	assert.Equal(t, 1, got.Samples[2].Lap)
	assert.Equal(t, 2, got.Samples[3].Lap)
	assert.Equal(t, model.CompoundMedium, got.Samples[3].Compound)
}

func TestBuilder_LapAssignmentTieLastWins(t *testing.T) {
	laps := []model.Lap{
		{LapNumber: 1, StartTime: 10, Compound: "SOFT"},
		{LapNumber: 2, StartTime: 10, Compound: "HARD"},
	}
	got, err := NewBuilder().Build("44", []model.RawSample{rawAt(12, 0, 0)}, laps)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Samples[0].Lap)
	assert.Equal(t, model.CompoundHard, got.Samples[0].Compound)
}

func TestBuilder_DistanceIntegration(t *testing.T) {
	raw := []model.RawSample{
		rawAt(0, 0, 0),
		rawAt(1, 3, 4),
		rawAt(2, 3, 4),
	}
	got, err := NewBuilder().Build("44", raw, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Samples[0].Distance)
	assert.Equal(t, 5.0, got.Samples[1].Distance)
	assert.Equal(t, 5.0, got.Samples[2].Distance)
}

func TestBuilder_PitStatusFromLapFlags(t *testing.T) {
	laps := []model.Lap{
		{LapNumber: 1, StartTime: 0, Compound: "SOFT", PitIn: true},
		{LapNumber: 2, StartTime: 10, Compound: "SOFT"},
	}
	raw := []model.RawSample{
		rawAt(1, 0, 0),
		rawAt(12, 100, 0),
	}
	got, err := NewBuilder().Build("44", raw, laps)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPit, got.Samples[0].Status)
	assert.Equal(t, model.StatusOnTrack, got.Samples[1].Status)
}

func TestBuilder_StationaryOverridesPit(t *testing.T) {
	laps := []model.Lap{{LapNumber: 1, StartTime: 0, Compound: "SOFT", PitIn: true}}
	// 30 samples without any movement
	raw := make([]model.RawSample, 0, 30)
	for i := 0; i < 30; i++ {
		raw = append(raw, rawAt(float64(i), 500, 500))
	}
	got, err := NewBuilder().Build("44", raw, laps)
	require.NoError(t, err)

	for i, sample := range got.Samples {
		if i <= 10 {
			assert.Equal(t, model.StatusPit, sample.Status, "sample %d", i)
		} else {
			assert.Equal(t, model.StatusOut, sample.Status, "sample %d", i)
		}
	}
}

func TestBuilder_MovingCarIsNotOut(t *testing.T) {
	raw := make([]model.RawSample, 0, 30)
	for i := 0; i < 30; i++ {
		raw = append(raw, rawAt(float64(i), float64(i*10), 0))
	}
	got, err := NewBuilder().Build("44", raw, nil)
	require.NoError(t, err)
	for i, sample := range got.Samples {
		assert.Equal(t, model.StatusOnTrack, sample.Status, "sample %d", i)
	}
}

func TestBuilder_CustomStationaryFunc(t *testing.T) {
	never := func(window []model.Position) bool { return false }
	raw := make([]model.RawSample, 0, 30)
	for i := 0; i < 30; i++ {
		raw = append(raw, rawAt(float64(i), 500, 500))
	}
	got, err := NewBuilder(WithStationaryFunc(never)).Build("44", raw, nil)
	require.NoError(t, err)
	for _, sample := range got.Samples {
		assert.Equal(t, model.StatusOnTrack, sample.Status)
	}
}

func TestBuilder_MonotonicInvariants(t *testing.T) {
	laps := []model.Lap{
		{LapNumber: 1, StartTime: 3, Compound: "SOFT"},
		{LapNumber: 2, StartTime: 6, Compound: "SOFT"},
	}
	raw := []model.RawSample{
		rawAt(7, 4, 0), rawAt(2, 1, 1), rawAt(4, 2, 2),
		rawAt(4, 9, 9), rawAt(6, 3, 3), rawAt(2, 8, 8),
	}
	got, err := NewBuilder().Build("44", raw, laps)
	require.NoError(t, err)
	for i := 1; i < got.Len(); i++ {
		assert.Greater(t, got.Samples[i].T, got.Samples[i-1].T)
		assert.GreaterOrEqual(t, got.Samples[i].Distance, got.Samples[i-1].Distance)
		assert.GreaterOrEqual(t, got.Samples[i].Lap, got.Samples[i-1].Lap)
	}
}

func sampleTimes(s *model.SampleSeries) []float64 {
	ret := make([]float64, 0, s.Len())
	for i := range s.Samples {
		ret = append(ret, s.Samples[i].T)
	}
	return ret
}
