// Package remote exposes the playback engine over HTTP: JSON intents,
// state and spectrum reads, a websocket state push and prometheus metrics.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/telemetry"
)

// PresetStore persists named EQ presets.
type PresetStore interface {
	ListEQPresets() ([]state.EQPreset, error)
	GetEQPreset(name string) (*state.EQPreset, error)
	SaveEQPreset(name string, gains graph.Gains) (int64, error)
	DeleteEQPreset(id int64) error
}

// Server serves the remote-control surface for one engine.
type Server struct {
	service  playback.Service
	presets  PresetStore
	registry *prometheus.Registry
	metrics  *Metrics
	hub      *hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server for service. presets may be nil, which
// disables the preset endpoints.
func NewServer(service playback.Service, presets PresetStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("remote")
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	return &Server{
		service:  service,
		presets:  presets,
		registry: reg,
		metrics:  metrics,
		hub:      newHub(metrics, logger),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameHost,
		},
	}
}

// Router creates the chi router with all routes.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)
	r.Get("/spectrum", s.handleSpectrum)
	r.Get("/ws", s.handleWS)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/play", s.handlePlay)
	r.Post("/pause", s.handlePause)
	r.Post("/stop", s.handleStop)
	r.Post("/seek", s.handleSeek)
	r.Post("/skip", s.handleSkip)
	r.Post("/volume", s.handleVolume)
	r.Post("/mute", s.handleMute)
	r.Post("/rate", s.handleRate)

	r.Route("/eq", func(r chi.Router) {
		r.Post("/", s.handleEQ)
		r.Post("/reset", s.handleEQReset)
		r.Get("/presets", s.handleListPresets)
		r.Post("/presets", s.handleSavePreset)
		r.Post("/presets/{name}/apply", s.handleApplyPreset)
		r.Delete("/presets/{id}", s.handleDeletePreset)
	})

	return r
}

// Watch pushes the projected state to websocket clients on every engine
// event and keeps the metrics current. It returns when ctx is done or the
// engine closes.
func (s *Server) Watch(ctx context.Context) {
	s.watch(ctx, s.service.Subscribe())
}

func (s *Server) watch(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			s.hub.closeAll()
			return
		case e := <-sub.StateChanged:
			s.metrics.observeState(e)
		case e := <-sub.Error:
			s.metrics.observeError(e)
		case <-sub.TrackChanged:
		case <-sub.PositionChanged:
		case <-sub.TransportChanged:
		}
		if s.hub.count() == 0 {
			continue
		}
		msg, err := json.Marshal(s.stateMessage())
		if err != nil {
			s.logger.Warn("encode state", zap.Error(err))
			continue
		}
		s.hub.broadcast(msg)
	}
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve runs the watcher and serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.watch(watchCtx, s.service.Subscribe())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("remote listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// stateMessage is the JSON view of the engine shared by /state and /ws.
type stateMessage struct {
	Type       string               `json:"type"`
	Snapshot   playback.Snapshot    `json:"snapshot"`
	Projection telemetry.Projection `json:"projection"`
	Error      string               `json:"error,omitempty"`
}

func (s *Server) stateMessage() stateMessage {
	snap := s.service.Snapshot()
	msg := stateMessage{Type: "state", Snapshot: snap, Projection: snap.Projection()}
	if snap.Err != nil {
		msg.Error = userError(snap.Track, snap.Err)
	}
	return msg
}

// sameHost accepts browsers served from the remote itself and non-browser
// clients, which send no Origin.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
