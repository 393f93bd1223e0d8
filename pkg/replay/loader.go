package replay

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/raceview/raceplay/log"
	"github.com/raceview/raceplay/pkg/model"
	"github.com/raceview/raceplay/pkg/processing/series"
	"github.com/raceview/raceplay/pkg/provider"
)

// Loader fetches a session from a provider and builds all entity series.
// Per-entity builds run concurrently; a failed entity is dropped with a
// warning and only a fully empty result is fatal.
type Loader struct {
	provider    provider.TelemetryProvider
	builder     *series.Builder
	sessionOpts []SessionOption
	l           *log.Logger
}

type LoaderOption func(l *Loader)

func WithBuilder(b *series.Builder) LoaderOption {
	return func(l *Loader) {
		l.builder = b
	}
}

func WithSessionOptions(opts ...SessionOption) LoaderOption {
	return func(l *Loader) {
		l.sessionOpts = append(l.sessionOpts, opts...)
	}
}

func NewLoader(p provider.TelemetryProvider, opts ...LoaderOption) *Loader {
	l := &Loader{
		provider: p,
		builder:  series.NewBuilder(),
		l:        log.Default().Named("loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadResult is the one-shot handoff of a background load. Either Session
// or Err is set, never both.
type LoadResult struct {
	Session *Session
	Err     error
}

// Load fetches the raw session data and builds one series per entity.
// Series construction is independent per entity and runs in parallel;
// results are merged only after every build finished.
func (l *Loader) Load(ctx context.Context) (*Session, error) {
	data, err := l.provider.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching session data: %w", err)
	}

	results := make(chan *model.SampleSeries, len(data.Entities))
	wg := sync.WaitGroup{}
	for i := range data.Entities {
		wg.Add(1)
		go func(e *provider.EntityData) {
			defer wg.Done()
			built, buildErr := l.builder.Build(e.EntityID, e.Samples, e.Laps)
			if buildErr != nil {
				l.l.Warn("dropping entity",
					log.String("entity", e.EntityID),
					log.ErrorField(buildErr))
				return
			}
			results <- built
		}(&data.Entities[i])
	}
	wg.Wait()
	close(results)

	built := make([]*model.SampleSeries, 0, len(data.Entities))
	for ser := range results {
		built = append(built, ser)
	}
	if len(built) == 0 {
		return nil, ErrNoEntities
	}

	// clone so the append below never writes into the loader's own slice
	opts := slices.Clone(l.sessionOpts)
	if len(data.Colors) > 0 {
		opts = append(opts, WithColors(data.Colors))
	}
	return NewSession(data.Name, built, opts...)
}

// LoadAsync runs Load on a background goroutine and delivers the result on
// a buffered one-shot channel, so the caller's interactive surface stays
// responsive during the initial load. If the caller goes away the result
// is simply never read; no partial state is observable either way.
func (l *Loader) LoadAsync(ctx context.Context) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		s, err := l.Load(ctx)
		ch <- LoadResult{Session: s, Err: err}
		close(ch)
	}()
	return ch
}
