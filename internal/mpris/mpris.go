//go:build linux

package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/playback"
)

const busName = "wavestream"

// Adapter connects the playback engine to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	logger *zap.Logger
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{
		logger: logger.Named("mpris"),
	}

	a.server = server.NewServer(busName, &rootAdapter{}, newPlayerAdapter(service))

	go func() {
		if err := a.server.Listen(); err != nil {
			a.logger.Info("mpris bridge stopped", zap.Error(err))
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}
