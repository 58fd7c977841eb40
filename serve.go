package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/app"
	"github.com/llehouerou/wavestream/internal/remote"
	"github.com/llehouerou/wavestream/internal/state"
)

func newServeCmd() *cobra.Command {
	var (
		flags  trackFlags
		listen string
	)
	cmd := &cobra.Command{
		Use:   "serve [url|track-id]",
		Short: "Run headless with the HTTP remote control",
		Long: "serve runs the player without a terminal UI. It is controlled over\n" +
			"HTTP and a websocket state feed, and through MPRIS when available.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(true)
			if err != nil {
				return err
			}
			defer rt.close()
			if listen == "" {
				listen = rt.cfg.RemoteListen()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

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

			if len(args) == 1 {
				t := flags.descriptor(args[0])
				go func() {
					if err := svc.Engine.PlayTrack(ctx, t); err != nil {
						rt.logger.Warn("initial track", zap.String("track", t.ID), zap.Error(err))
					}
				}()
			}

			srv := remote.NewServer(svc.Engine, st, rt.logger)
			return srv.ListenAndServe(ctx, listen)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, 127.0.0.1:7878)")
	return cmd
}
