package replay

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/raceview/raceplay/log"
	"github.com/raceview/raceplay/pkg/model"
	"github.com/raceview/raceplay/pkg/processing/clock"
	"github.com/raceview/raceplay/pkg/provider/recorded"
	"github.com/raceview/raceplay/pkg/replay"
)

var (
	sessionDir    string
	speed         float64
	maxDuration   time.Duration
	tickInterval  time.Duration
	printInterval time.Duration
	followEntity  string
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "replays a recorded session and prints the standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&sessionDir, "session", "",
		"directory containing the recorded session")
	cmd.Flags().Float64Var(&speed, "speed", 1.0,
		"playback rate multiplier")
	cmd.Flags().DurationVar(&maxDuration, "duration", 0,
		"stop after this wall clock duration (0: play to the end)")
	cmd.Flags().DurationVar(&tickInterval, "tick", 200*time.Millisecond,
		"tick interval driving the session")
	cmd.Flags().DurationVar(&printInterval, "print-interval", 2*time.Second,
		"interval between standings printouts")
	cmd.Flags().StringVar(&followEntity, "follow", "",
		"entity to print detailed telemetry for")
	//nolint:errcheck // flag is declared one line above
	cmd.MarkFlagRequired("session")
	return cmd
}

//nolint:funlen // sequential tick loop
func runReplay(parentCtx context.Context) error {
	ctx, stop := signal.NotifyContext(parentCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l := log.Default().Named("replay")
	loader := replay.NewLoader(
		recorded.NewProvider(sessionDir),
		replay.WithSessionOptions(
			replay.WithClockOptions(clock.WithRate(speed)),
		),
	)

	l.Info("loading session", log.String("dir", sessionDir))
	started := time.Now()
	resultChan := loader.LoadAsync(ctx)
	var session *replay.Session
	progress := time.NewTicker(500 * time.Millisecond)
	defer progress.Stop()
wait:
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-progress.C:
			l.Debug("still loading", log.Duration("elapsed", time.Since(started)))
		case result := <-resultChan:
			if result.Err != nil {
				return result.Err
			}
			session = result.Session
			break wait
		}
	}
	l.Info("session loaded",
		log.String("name", session.Name()),
		log.Int("entities", len(session.Entities())),
		log.Duration("took", time.Since(started)))

	if followEntity == "" {
		followEntity = session.SelectNext("")
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	lastTick := time.Now()
	lastPrint := time.Time{}
	deadline := time.Time{}
	if maxDuration > 0 {
		deadline = started.Add(maxDuration)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			session.Tick(now.Sub(lastTick).Seconds())
			lastTick = now
			if now.Sub(lastPrint) >= printInterval {
				printSnapshot(session.Snapshot())
				lastPrint = now
			}
			state := session.Clock()
			if state.Paused {
				l.Info("end of session reached",
					log.Float64("sessionTime", state.CurrentTime))
				printSnapshot(session.Snapshot())
				return nil
			}
			if !deadline.IsZero() && now.After(deadline) {
				l.Info("duration limit reached")
				return nil
			}
		}
	}
}

func printSnapshot(snapshot *model.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("%s  t=%.1fs  %.1fx  lap %d/%d",
		snapshot.SessionName,
		snapshot.Clock.CurrentTime,
		snapshot.Clock.Rate,
		leaderLap(snapshot),
		snapshot.TotalLaps)
	t.AppendHeader(table.Row{"Pos", "Entity", "Lap", "Tyre", "Status", "Gap"})
	for _, e := range snapshot.Standings {
		t.AppendRow(table.Row{e.Pos, e.EntityID, e.Lap, e.Compound, e.Status, gapOutput(e)})
	}
	t.Render()

	if sample, ok := snapshot.Samples[followEntity]; ok {
		drs := "OFF"
		if sample.DrsOpen() {
			drs = "ON"
		}
		fmt.Fprintf(os.Stdout,
			"%s: %.1f km/h gear %d DRS %s  S1 %.3f S2 %.3f S3 %.3f\n",
			followEntity, sample.Speed, sample.Gear, drs,
			sample.Sectors[0], sample.Sectors[1], sample.Sectors[2])
	}
}

func gapOutput(e model.RankEntry) string {
	if e.Pos == 1 {
		return "-"
	}
	// the estimate can go negative for a lapped car with a larger
	// entity-local distance than the car ahead, so keep the sign explicit
	return fmt.Sprintf("%+.2fs", e.GapToAhead)
}

func leaderLap(snapshot *model.Snapshot) int {
	if len(snapshot.Standings) == 0 {
		return 0
	}
	return snapshot.Standings[0].Lap
}
