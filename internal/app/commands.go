package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/track"
)

// WaitForEvent returns a command that waits for the next engine event.
// It listens on all subscription channels and converts events to tea.Msg.
func WaitForEvent(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return EngineMsg{State: &e}
		case e := <-sub.TrackChanged:
			return EngineMsg{Track: &e}
		case e := <-sub.PositionChanged:
			return EngineMsg{Position: &e}
		case e := <-sub.TransportChanged:
			return EngineMsg{Transport: &e}
		case e := <-sub.Error:
			return EngineMsg{Error: &e}
		case <-sub.Done:
			return EngineClosedMsg{}
		}
	}
}

// FrameCmd returns a command that sends FrameMsg after one frame at fps.
func FrameCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 30
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// PlayCmd starts t on the service off the update loop.
func PlayCmd(service playback.Service, t *track.Descriptor) tea.Cmd {
	return func() tea.Msg {
		err := service.PlayTrack(context.Background(), t)
		return PlayResultMsg{TrackID: t.ID, Title: t.DisplayTitle(), Err: err}
	}
}
