package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raceview/raceplay/pkg/model"
)

func seriesAt(times ...float64) *model.SampleSeries {
	samples := make([]model.Sample, 0, len(times))
	for _, t := range times {
		samples = append(samples, model.Sample{T: t})
	}
	return &model.SampleSeries{EntityID: "44", Samples: samples}
}

func TestResolve_BetweenSamples(t *testing.T) {
	s := seriesAt(0, 1, 2, 3)
	assert.Equal(t, 1, Resolve(s, 1.5))
}

func TestResolve_ExactHit(t *testing.T) {
	s := seriesAt(0, 1, 2, 3)
	assert.Equal(t, 2, Resolve(s, 2))
}

func TestResolve_BeforeFirst(t *testing.T) {
	s := seriesAt(0, 1, 2, 3)
	assert.Equal(t, 0, Resolve(s, -1))
}

func TestResolve_BeyondLast(t *testing.T) {
	s := seriesAt(0, 1, 2, 3)
	// entity stays frozen at its final known state
	assert.Equal(t, 3, Resolve(s, 100))
}

func TestResolve_Idempotent(t *testing.T) {
	s := seriesAt(0, 0.5, 1.7, 4.1, 9)
	for _, q := range []float64{-3, 0, 0.4, 1.7, 5, 100} {
		assert.Equal(t, Resolve(s, q), Resolve(s, q))
	}
}

func TestResolve_MatchesLinearScan(t *testing.T) {
	s := seriesAt(0, 0.2, 1.1, 2.5, 2.6, 7, 11.3)
	for q := -1.0; q < 13; q += 0.1 {
		want := 0
		for i := range s.Samples {
			if s.Samples[i].T <= q {
				want = i
			}
		}
		assert.Equal(t, want, Resolve(s, q), "query %f", q)
	}
}
