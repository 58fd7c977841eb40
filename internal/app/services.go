package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/config"
	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/lastfm"
	"github.com/llehouerou/wavestream/internal/mpris"
	"github.com/llehouerou/wavestream/internal/notify"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/resolve"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/telemetry"
)

// Services holds the long-lived collaborators around one engine.
type Services struct {
	Engine    *playback.Engine
	State     state.Interface
	Forwarder *telemetry.Forwarder

	logger  *zap.Logger
	redis   *redis.Client
	mpris   *mpris.Adapter
	persist context.CancelFunc
	done    chan struct{}
}

// Build wires configuration into a running engine: resolvers, element,
// signal graph, notifications, Last.fm history and MPRIS. Optional
// collaborators that fail to start are logged and skipped. st may be nil,
// in which case transport state is neither restored nor saved.
func Build(cfg *config.Config, st state.Interface, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Services{State: st, logger: logger, done: make(chan struct{})}

	resolver, rdb, err := buildResolver(cfg, logger)
	if err != nil {
		return nil, err
	}
	s.redis = rdb

	audio := cfg.GetAudioConfig()
	rate := beep.SampleRate(audio.SampleRate)
	buffer := time.Duration(audio.BufferMS) * time.Millisecond
	elem := player.New(player.Config{
		SampleRate: rate,
		BufferSize: buffer,
		Logger:     logger,
	})
	graphFactory := func() (graph.Interface, error) {
		return bindGraph(elem, func(src beep.Streamer) (graph.Interface, error) {
			return graph.New(graph.Config{
				SampleRate:     rate,
				BufferSize:     buffer,
				FFTSize:        audio.FFTSize,
				Smoothing:      0.8,
				StartSuspended: true,
				Logger:         logger,
			}, src)
		})
	}

	s.Forwarder = telemetry.NewForwarder(
		buildNotifier(cfg, logger),
		buildRecorder(cfg, st, logger),
		logger,
	)

	s.Engine = playback.New(elem, playback.Options{
		Graph:        graphFactory,
		Resolver:     resolver,
		Reporter:     s.Forwarder,
		Logger:       logger,
		Transport:    loadTransport(st, logger),
		CleanupYield: time.Duration(audio.CleanupYieldMS) * time.Millisecond,
	})
	if s.Engine.Degraded() {
		logger.Warn("signal graph unavailable, EQ and spectrum disabled")
	}

	if st != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.persist = cancel
		sub := s.Engine.Subscribe()
		go func() {
			defer close(s.done)
			persistTransport(ctx, sub, st)
		}()
	} else {
		close(s.done)
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(s.Engine, logger)
		if err != nil {
			logger.Warn("mpris unavailable", zap.Error(err))
		} else {
			s.mpris = adapter
		}
	}

	return s, nil
}

// Close stops MPRIS, the engine and background work, then releases the
// cache connection and the state store.
func (s *Services) Close() error {
	var errs []error
	if s.mpris != nil {
		errs = append(errs, s.mpris.Close())
	}
	if s.Engine != nil {
		errs = append(errs, s.Engine.Close())
	}
	if s.persist != nil {
		s.persist()
	}
	<-s.done
	if s.Forwarder != nil {
		s.Forwarder.Wait()
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.State != nil {
		errs = append(errs, s.State.Close())
	}
	return errors.Join(errs...)
}

// bindGraph hands the element's output to a graph built by open. When the
// graph cannot open the speaker the output goes back to the element.
func bindGraph(elem *player.Element, open func(beep.Streamer) (graph.Interface, error)) (graph.Interface, error) {
	src, err := elem.Bind()
	if err != nil {
		return nil, err
	}
	g, err := open(src)
	if err != nil {
		elem.Unbind()
		return nil, err
	}
	return g, nil
}

func loadTransport(st state.Interface, logger *zap.Logger) playback.TransportState {
	if st == nil {
		return playback.DefaultTransport()
	}
	t, err := st.GetTransport()
	if err != nil {
		logger.Warn("load transport state", zap.Error(err))
		return playback.DefaultTransport()
	}
	return t
}

// buildResolver chains object storage before the HTTP API and caches the
// chain in redis when configured. It returns a nil resolver when nothing
// is configured.
func buildResolver(cfg *config.Config, logger *zap.Logger) (resolve.Resolver, *redis.Client, error) {
	var chain resolve.Chain

	if cfg.HasMinioConfig() {
		m := cfg.GetMinioConfig()
		r, err := resolve.NewMinio(resolve.MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			UseSSL:    m.UseSSL,
			Bucket:    m.Bucket,
			Prefix:    m.Prefix,
			Ext:       m.Extension,
			Expiry:    cfg.MinioExpiry(),
		})
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, r)
	}
	if cfg.HasAPIResolver() {
		chain = append(chain, &resolve.HTTP{
			BaseURL: cfg.Resolver.APIURL,
			Token:   cfg.Resolver.APIToken,
			Client:  &http.Client{Timeout: cfg.ResolverTimeout()},
		})
	}

	var resolver resolve.Resolver
	switch len(chain) {
	case 0:
		return nil, nil, nil
	case 1:
		resolver = chain[0]
	default:
		resolver = chain
	}

	if !cfg.HasRedisConfig() {
		return resolver, nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Resolver.Redis.Addr,
		Password: cfg.Resolver.Redis.Password,
		DB:       cfg.Resolver.Redis.DB,
	})
	return resolve.NewCache(resolver, rdb, cfg.CacheTTL(), logger), rdb, nil
}

func buildNotifier(cfg *config.Config, logger *zap.Logger) telemetry.Notifier {
	if !cfg.NotificationsEnabled() {
		return nil
	}
	n, err := notify.New()
	if err != nil {
		logger.Info("desktop notifications disabled", zap.Error(err))
		return nil
	}
	return notify.NewToasts(n, cfg.NotificationTimeout())
}

// buildRecorder returns a Last.fm recorder when configured and linked.
func buildRecorder(cfg *config.Config, st state.Interface, logger *zap.Logger) telemetry.HistoryRecorder {
	if !cfg.HasLastfmConfig() || st == nil {
		return nil
	}
	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	linked, err := lastfm.LoadSession(client, st)
	if err != nil {
		logger.Warn("load lastfm session", zap.Error(err))
		return nil
	}
	if !linked {
		logger.Info("lastfm configured but not linked")
		return nil
	}
	return lastfm.NewRecorder(client)
}
