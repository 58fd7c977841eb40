package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/lastfm"
	"github.com/llehouerou/wavestream/internal/state"
)

const linkTimeout = 5 * time.Minute

func newLastfmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lastfm",
		Short: "Manage the Last.fm play history link",
	}

	var callback string
	link := &cobra.Command{
		Use:   "link",
		Short: "Authorize wavestream to record plays on Last.fm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(false)
			if err != nil {
				return err
			}
			defer rt.close()
			if !rt.cfg.HasLastfmConfig() {
				return errors.New("lastfm.api_key and lastfm.api_secret must be configured")
			}

			st, err := state.Open(rt.logger)
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer st.Close()

			client := lastfm.New(rt.cfg.Lastfm.APIKey, rt.cfg.Lastfm.APISecret)
			as, err := lastfm.StartAuthServer(callback)
			if err != nil {
				return err
			}
			defer as.Shutdown()

			token, err := client.GetToken()
			if err != nil {
				return err
			}
			url := client.GetAuthURL(token, as.CallbackURL())
			if err := lastfm.OpenBrowser(url); err != nil {
				rt.logger.Debug("open browser", zap.Error(err))
			}
			cmd.Printf("Authorize wavestream in your browser:\n  %s\n", url)

			ctx, cancel := context.WithTimeout(cmd.Context(), linkTimeout)
			defer cancel()
			if _, err := as.WaitToken(ctx); err != nil {
				return fmt.Errorf("waiting for authorization: %w", err)
			}

			username, key, err := client.GetSession(token)
			if err != nil {
				return err
			}
			if err := st.SaveLastfmSession(username, key); err != nil {
				return err
			}
			cmd.Printf("Linked to Last.fm as %s\n", username)
			return nil
		},
	}
	link.Flags().StringVar(&callback, "callback", "127.0.0.1:0", "address of the local authorization callback")

	unlink := &cobra.Command{
		Use:   "unlink",
		Short: "Forget the stored Last.fm session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(false)
			if err != nil {
				return err
			}
			defer rt.close()
			st, err := state.Open(rt.logger)
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer st.Close()
			if err := st.DeleteLastfmSession(); err != nil {
				return err
			}
			cmd.Println("Last.fm session removed")
			return nil
		},
	}

	cmd.AddCommand(link, unlink)
	return cmd
}
