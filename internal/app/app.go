package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/track"
	"github.com/llehouerou/wavestream/internal/ui"
	"github.com/llehouerou/wavestream/internal/ui/helpbindings"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/spectrum"
)

// Transport steps applied by the keyboard.
const (
	volumeStep   = 0.05
	rateStep     = 0.25
	eqStep       = 1.0
	seekStep     = 5 // seconds
	seekLongStep = 30
)

// Options configures the terminal player.
type Options struct {
	// Track is started by Init when set.
	Track *track.Descriptor
	// FPS is the spectrum refresh rate while playing.
	FPS      int
	Spectrum bool
	Mode     playerbar.DisplayMode
}

// Model is the bubbletea model of the terminal player. It renders the
// engine's snapshot and forwards key actions to the service.
type Model struct {
	service playback.Service
	sub     *playback.Subscription
	keys    *keymap.Resolver

	snap     playback.Snapshot
	spectrum spectrum.Model
	help     helpbindings.Model
	initial  *track.Descriptor
	notice   string

	mode         playerbar.DisplayMode
	fps          int
	showSpectrum bool
	framing      bool
	showHelp     bool

	width, height int
}

// New creates the model and subscribes to service events right away, so
// nothing published before Init is missed.
func New(service playback.Service, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return Model{
		service:      service,
		sub:          service.Subscribe(),
		keys:         keymap.NewResolver(keymap.All),
		snap:         service.Snapshot(),
		spectrum:     spectrum.New(),
		help:         helpbindings.New(),
		initial:      opts.Track,
		mode:         opts.Mode,
		fps:          opts.FPS,
		showSpectrum: opts.Spectrum,
	}
}

// Init starts listening for engine events and plays the initial track.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{WaitForEvent(m.sub)}
	if m.initial != nil {
		cmds = append(cmds, PlayCmd(m.service, m.initial))
	}
	return tea.Batch(cmds...)
}

// Snapshot returns the snapshot the model last rendered from.
func (m Model) Snapshot() playback.Snapshot {
	return m.snap
}

// layout sizes the spectrum panel to the space left by the header, the
// player bar and the footer.
func (m *Model) layout() {
	m.help.SetSize(max(min(m.width-helpChrome, helpWidth), 0), max(m.height-ui.BorderHeight, 0))
	h := m.height - headerHeight - footerHeight
	if m.snap.Track != nil {
		h -= playerbar.Height(m.mode)
	}
	m.spectrum.SetSize(m.width, max(h, 0))
}
