// Manual check: resolve one track through the configured resolvers, play
// it for a while and log every engine event.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/app"
	"github.com/llehouerou/wavestream/internal/config"
	"github.com/llehouerou/wavestream/internal/telemetry"
	"github.com/llehouerou/wavestream/internal/track"
)

func main() {
	id := flag.String("id", "", "track ID to resolve, or a stream URL")
	listen := flag.Duration("for", 15*time.Second, "how long to play")
	seek := flag.Duration("seek", 0, "seek to this position once playing")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck

	if *id == "" {
		logger.Fatal("-id is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	svc, err := app.Build(cfg, nil, logger)
	if err != nil {
		logger.Fatal("build services", zap.Error(err))
	}
	defer svc.Close()
	if svc.Engine.Degraded() {
		logger.Warn("running without signal graph")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *listen)
	defer cancel()

	sub := svc.Engine.Subscribe()
	t := &track.Descriptor{ID: *id}
	if strings.HasPrefix(*id, "http://") || strings.HasPrefix(*id, "https://") {
		t.StreamURL = *id
	}

	start := time.Now()
	if err := svc.Engine.PlayTrack(ctx, t); err != nil {
		logger.Fatal("play", zap.Error(err))
	}
	logger.Info("load issued", zap.Duration("after", time.Since(start)))

	seeked := *seek == 0
	for {
		select {
		case <-ctx.Done():
			snap := svc.Engine.Snapshot()
			logger.Info("done",
				zap.Stringer("status", snap.Status),
				zap.String("position", telemetry.FormatTime(snap.CurrentTime)),
				zap.String("duration", telemetry.FormatTime(snap.Duration)))
			return
		case e := <-sub.StateChanged:
			logger.Info("state", zap.Stringer("from", e.Previous), zap.Stringer("to", e.Current),
				zap.Duration("after", time.Since(start)))
			if !seeked && e.Snapshot.IsPlaying {
				seeked = true
				svc.Engine.SeekTo(*seek)
			}
		case e := <-sub.PositionChanged:
			logger.Debug("position", zap.Duration("pos", e.Position), zap.Duration("dur", e.Duration))
		case e := <-sub.Error:
			logger.Error("engine error", zap.String("op", e.Operation), zap.Error(e.Err))
		case <-sub.TrackChanged:
		case <-sub.TransportChanged:
		case <-sub.Done:
			return
		}
	}
}
