package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/app"
	"github.com/llehouerou/wavestream/internal/config"
	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/logging"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/stderr"
	"github.com/llehouerou/wavestream/internal/track"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
)

// trackFlags describe the track given on the command line.
type trackFlags struct {
	title    string
	artist   string
	artwork  string
	duration time.Duration
}

func (f *trackFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "track title")
	cmd.Flags().StringVar(&f.artist, "artist", "", "track artist")
	cmd.Flags().StringVar(&f.artwork, "artwork", "", "artwork URL")
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "known duration, shown until the stream reports one")
}

// descriptor builds a track from an argument. URLs are played directly,
// anything else is a track ID resolved through the configured resolvers.
func (f *trackFlags) descriptor(arg string) *track.Descriptor {
	d := &track.Descriptor{
		ID:       arg,
		Title:    f.title,
		Artist:   f.artist,
		Artwork:  f.artwork,
		Duration: f.duration,
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		d.StreamURL = arg
	}
	return d
}

// runtime is what every command needs before it starts: configuration
// and a logger.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
}

func setup(console bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, closeLog, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Console:    console,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	icons.Init(cfg.GetUIConfig().Icons)
	return &runtime{cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

func (r *runtime) close() {
	_ = r.closeLog()
}

func newRootCmd() *cobra.Command {
	var (
		flags    trackFlags
		expanded bool
		noSpec   bool
	)
	cmd := &cobra.Command{
		Use:   "wavestream [url|track-id]",
		Short: "Stream and play music tracks in the terminal",
		Long: "wavestream plays one streamed track at a time with volume, rate,\n" +
			"a three-band equalizer and a live spectrum.\n\n" +
			"A URL is played directly. A track ID is resolved to a stream URL\n" +
			"through the configured object storage or HTTP API.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			var t *track.Descriptor
			if len(args) == 1 {
				t = flags.descriptor(args[0])
			}
			mode := playerbar.ModeCompact
			if expanded {
				mode = playerbar.ModeExpanded
			}
			return runTUI(t, mode, !noSpec)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&expanded, "expanded", false, "start with the expanded player bar")
	cmd.Flags().BoolVar(&noSpec, "no-spectrum", false, "hide the spectrum")

	cmd.AddCommand(newServeCmd(), newLastfmCmd())
	return cmd
}

func runTUI(t *track.Descriptor, mode playerbar.DisplayMode, spectrum bool) error {
	rt, err := setup(false)
	if err != nil {
		return err
	}
	defer rt.close()

	// ALSA and friends write to fd 2, which would corrupt the UI.
	capture, err := stderr.Start(rt.logger)
	if err != nil {
		rt.logger.Warn("stderr capture unavailable", zap.Error(err))
	} else {
		defer capture.Stop()
	}

	st, err := state.Open(rt.logger)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	svc, err := app.Build(rt.cfg, st, rt.logger)
	if err != nil {
		_ = st.Close()
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			rt.logger.Warn("shutdown", zap.Error(err))
		}
	}()

	ui := rt.cfg.GetUIConfig()
	model := app.New(svc.Engine, app.Options{
		Track:    t,
		FPS:      ui.SpectrumFPS,
		Spectrum: spectrum && *ui.Spectrum,
		Mode:     mode,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wavestream:", err)
		os.Exit(1)
	}
}
