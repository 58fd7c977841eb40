package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/app/handler"
	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
)

// Update handles bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EngineMsg:
		m.refresh()
		if msg.State != nil && msg.State.Current == playback.StatusLoading {
			m.notice = ""
		}
		return m, tea.Batch(WaitForEvent(m.sub), m.startFrames())

	case EngineClosedMsg:
		return m, tea.Quit

	case FrameMsg:
		return m, m.handleFrame()

	case PlayResultMsg:
		m.refresh()
		m.notice = playNotice(msg, m.snap)
		return m, m.startFrames()
	}
	return m, nil
}

// refresh reloads the snapshot and relayouts if the bar appeared or left.
func (m *Model) refresh() {
	hadTrack := m.snap.Track != nil
	m.snap = m.service.Snapshot()
	m.spectrum.SetFocused(m.snap.IsPlaying)
	if hadTrack != (m.snap.Track != nil) {
		m.layout()
	}
}

// startFrames begins the spectrum frame loop if it should run and is not
// already running.
func (m *Model) startFrames() tea.Cmd {
	if m.framing || !m.showSpectrum || !m.snap.IsPlaying {
		return nil
	}
	m.framing = true
	return FrameCmd(m.fps)
}

// handleFrame polls frequency data while playing. The loop stops itself
// otherwise and the spectrum is cleared once playback is no longer active.
func (m *Model) handleFrame() tea.Cmd {
	if !m.showSpectrum || !m.snap.IsPlaying {
		m.framing = false
		if !m.snap.IsPlaying {
			m.spectrum.Clear()
		}
		return nil
	}
	m.spectrum.SetData(m.service.FrequencyData())
	return FrameCmd(m.fps)
}

// playNotice describes a failed play that the snapshot does not already
// show. Engine errors surface through the snapshot.
func playNotice(msg PlayResultMsg, snap playback.Snapshot) string {
	if msg.Err == nil || errors.Is(msg.Err, playback.ErrClosed) {
		return ""
	}
	var perr *playback.Error
	if errors.As(msg.Err, &perr) && snap.Err != nil {
		return ""
	}
	return errmsg.Playback(msg.Title, msg.Err)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Resolve(msg.String())

	var quit bool
	handled, cmd := handler.Chain(
		func() handler.Result { return m.handleHelpKeys(msg, action) },
		func() handler.Result {
			if action == keymap.ActionQuit {
				quit = true
				return handler.HandledNoCmd
			}
			return handler.NotHandled
		},
		func() handler.Result { return m.handlePlaybackKeys(action) },
		func() handler.Result { return m.handleTransportKeys(action) },
		func() handler.Result { return m.handleEQKeys(action) },
		func() handler.Result { return m.handleDisplayKeys(action) },
	)
	if quit {
		return m, tea.Quit
	}
	if !handled {
		return m, nil
	}
	return m, cmd
}

// handleHelpKeys opens the help panel. While it is open it takes every
// key except quit.
func (m *Model) handleHelpKeys(msg tea.KeyMsg, action keymap.Action) handler.Result {
	if !m.showHelp {
		if action == keymap.ActionHelp {
			m.showHelp = true
			return handler.HandledNoCmd
		}
		return handler.NotHandled
	}
	if action == keymap.ActionQuit {
		return handler.NotHandled
	}
	var closed bool
	m.help, closed = m.help.Update(msg)
	if closed {
		m.showHelp = false
	}
	return handler.HandledNoCmd
}

func (m *Model) handlePlaybackKeys(action keymap.Action) handler.Result {
	switch action {
	case keymap.ActionPlayPause:
		// PlayTrack on the session's own track toggles pause.
		t := m.snap.Track
		if t == nil {
			t = m.initial
		}
		if t == nil {
			return handler.HandledNoCmd
		}
		return handler.Handled(PlayCmd(m.service, t))
	case keymap.ActionStop:
		m.service.StopTrack()
	case keymap.ActionSeekForward:
		m.service.SkipTime(seekStep * time.Second)
	case keymap.ActionSeekBack:
		m.service.SkipTime(-seekStep * time.Second)
	case keymap.ActionSeekForwardLong:
		m.service.SkipTime(seekLongStep * time.Second)
	case keymap.ActionSeekBackLong:
		m.service.SkipTime(-seekLongStep * time.Second)
	case keymap.ActionSeekStart:
		m.service.SeekTo(0)
	default:
		return handler.NotHandled
	}
	m.refresh()
	return handler.HandledNoCmd
}

func (m *Model) handleTransportKeys(action keymap.Action) handler.Result {
	t := m.snap.Transport
	switch action {
	case keymap.ActionVolumeUp:
		m.service.ChangeVolume(t.Volume + volumeStep)
	case keymap.ActionVolumeDown:
		m.service.ChangeVolume(t.Volume - volumeStep)
	case keymap.ActionMute:
		m.service.ToggleMute()
	case keymap.ActionRateUp:
		m.service.ChangePlaybackRate(t.Rate + rateStep)
	case keymap.ActionRateDown:
		m.service.ChangePlaybackRate(t.Rate - rateStep)
	case keymap.ActionRateReset:
		m.service.ChangePlaybackRate(1)
	default:
		return handler.NotHandled
	}
	m.refresh()
	return handler.HandledNoCmd
}

func (m *Model) handleEQKeys(action keymap.Action) handler.Result {
	eq := m.snap.Transport.EQ
	switch action {
	case keymap.ActionBassUp:
		m.service.UpdateEQ(graph.BandBass, eq.Bass+eqStep)
	case keymap.ActionBassDown:
		m.service.UpdateEQ(graph.BandBass, eq.Bass-eqStep)
	case keymap.ActionMidUp:
		m.service.UpdateEQ(graph.BandMid, eq.Mid+eqStep)
	case keymap.ActionMidDown:
		m.service.UpdateEQ(graph.BandMid, eq.Mid-eqStep)
	case keymap.ActionTrebleUp:
		m.service.UpdateEQ(graph.BandTreble, eq.Treble+eqStep)
	case keymap.ActionTrebleDown:
		m.service.UpdateEQ(graph.BandTreble, eq.Treble-eqStep)
	case keymap.ActionEQReset:
		m.service.ResetEQ()
	default:
		return handler.NotHandled
	}
	m.refresh()
	return handler.HandledNoCmd
}

func (m *Model) handleDisplayKeys(action keymap.Action) handler.Result {
	switch action {
	case keymap.ActionTogglePlayerDisplay:
		if m.mode == playerbar.ModeCompact {
			m.mode = playerbar.ModeExpanded
		} else {
			m.mode = playerbar.ModeCompact
		}
		m.layout()
		return handler.HandledNoCmd
	case keymap.ActionToggleSpectrum:
		m.showSpectrum = !m.showSpectrum
		if !m.showSpectrum {
			m.spectrum.Clear()
		}
		return handler.Handled(m.startFrames())
	}
	return handler.NotHandled
}
