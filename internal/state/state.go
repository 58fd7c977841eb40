// Package state persists user preferences that outlive a session: the
// transport settings, named EQ presets and the Last.fm session.
package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/db"
	"github.com/llehouerou/wavestream/internal/playback"
)

const (
	appName      = "wavestream"
	dbFileName   = "wavestream.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	logger    *zap.Logger
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *playback.TransportState
}

// Open opens the database at its XDG data location.
func Open(logger *zap.Logger) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	return OpenPath(dbPath, logger)
}

// OpenPath opens the database at path. Use ":memory:" for tests.
func OpenPath(path string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &Manager{db: conn, logger: logger.Named("state")}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending state
	if pending != nil {
		m.flush(*pending)
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// GetTransport returns the saved transport settings, or the defaults when
// nothing was saved yet.
func (m *Manager) GetTransport() (playback.TransportState, error) {
	return getTransport(m.db)
}

// SaveTransport schedules t to be written. Bursts of changes, such as a
// volume slider being dragged, end up as a single write.
func (m *Manager) SaveTransport(t playback.TransportState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &t

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			m.flush(*pending)
		}
	})
}

func (m *Manager) flush(t playback.TransportState) {
	if err := saveTransport(context.Background(), m.db, t); err != nil {
		m.logger.Warn("save transport", zap.Error(err))
	}
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
