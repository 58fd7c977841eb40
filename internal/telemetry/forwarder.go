package telemetry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/track"
)

// Notifier shows toast-style messages.
type Notifier interface {
	NowPlaying(t *track.Descriptor) error
	Failed(t *track.Descriptor, err error) error
}

// HistoryRecorder appends successful plays to the listener's history.
type HistoryRecorder interface {
	Authenticated() bool
	RecordPlay(t *track.Descriptor) error
}

// Forwarder relays playback outcomes to its collaborators. Every
// collaborator is optional. Recorder calls run in the background and their
// failures are only logged.
type Forwarder struct {
	notifier Notifier
	recorder HistoryRecorder
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewForwarder creates a forwarder. Nil collaborators are skipped.
func NewForwarder(n Notifier, r HistoryRecorder, logger *zap.Logger) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{notifier: n, recorder: r, logger: logger.Named("telemetry")}
}

// NowPlaying announces t and records the play for an authenticated
// history recorder.
func (f *Forwarder) NowPlaying(t *track.Descriptor) {
	if f.notifier != nil {
		if err := f.notifier.NowPlaying(t); err != nil {
			f.logger.Debug("now playing notification", zap.Error(err))
		}
	}
	if f.recorder == nil || !f.recorder.Authenticated() {
		return
	}
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.recorder.RecordPlay(t); err != nil {
			f.logger.Warn("record play", zap.String("track", t.ID), zap.Error(err))
		}
	}()
}

// PlayFailed surfaces err for t.
func (f *Forwarder) PlayFailed(t *track.Descriptor, err error) {
	f.logger.Info("play failed", zap.String("track", t.ID), zap.Error(err))
	if f.notifier != nil {
		if nerr := f.notifier.Failed(t, err); nerr != nil {
			f.logger.Debug("failure notification", zap.Error(nerr))
		}
	}
}

// Ended is logged only; advancing to another track belongs to the caller.
func (f *Forwarder) Ended(t *track.Descriptor) {
	f.logger.Debug("track ended", zap.String("track", t.ID))
}

// Wait blocks until background recorder calls finish.
func (f *Forwarder) Wait() {
	f.wg.Wait()
}
