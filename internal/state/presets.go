package state

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/llehouerou/wavestream/internal/graph"
)

// ErrEmptyPresetName is returned when saving a preset without a name.
var ErrEmptyPresetName = errors.New("state: preset name is empty")

// EQPreset is a named set of band gains.
type EQPreset struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Gains graph.Gains `json:"gains"`
}

// ListEQPresets returns all saved presets ordered by name.
func (m *Manager) ListEQPresets() ([]EQPreset, error) {
	return listEQPresets(m.db)
}

// GetEQPreset returns the preset called name, or nil if there is none.
func (m *Manager) GetEQPreset(name string) (*EQPreset, error) {
	return getEQPreset(m.db, name)
}

// SaveEQPreset stores gains under name, replacing a preset of the same name.
func (m *Manager) SaveEQPreset(name string, gains graph.Gains) (int64, error) {
	return saveEQPreset(m.db, name, gains)
}

// DeleteEQPreset deletes a preset by ID.
func (m *Manager) DeleteEQPreset(id int64) error {
	_, err := m.db.Exec("DELETE FROM eq_presets WHERE id = ?", id)
	return err
}

func listEQPresets(db *sql.DB) ([]EQPreset, error) {
	rows, err := db.Query(`
		SELECT id, name, bass, mid, treble
		FROM eq_presets
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []EQPreset
	for rows.Next() {
		var p EQPreset
		if err := rows.Scan(&p.ID, &p.Name, &p.Gains.Bass, &p.Gains.Mid, &p.Gains.Treble); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}

	return presets, rows.Err()
}

func getEQPreset(db *sql.DB, name string) (*EQPreset, error) {
	var p EQPreset
	err := db.QueryRow(`
		SELECT id, name, bass, mid, treble FROM eq_presets WHERE name = ?
	`, strings.TrimSpace(name)).Scan(&p.ID, &p.Name, &p.Gains.Bass, &p.Gains.Mid, &p.Gains.Treble)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // a missing preset is not an error
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func saveEQPreset(db *sql.DB, name string, gains graph.Gains) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyPresetName
	}
	for _, b := range graph.Bands {
		gains.Set(b, graph.ClampBandGain(gains.Get(b)))
	}

	now := time.Now().Unix()

	// Try to update existing preset with same name
	result, err := db.Exec(`
		UPDATE eq_presets
		SET bass = ?, mid = ?, treble = ?, updated_at = ?
		WHERE name = ?
	`, gains.Bass, gains.Mid, gains.Treble, now, name)
	if err != nil {
		return 0, err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		// Return existing ID
		var id int64
		err := db.QueryRow("SELECT id FROM eq_presets WHERE name = ?", name).Scan(&id)
		return id, err
	}

	// Insert new preset
	result, err = db.Exec(`
		INSERT INTO eq_presets (name, bass, mid, treble, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, name, gains.Bass, gains.Mid, gains.Treble, now, now)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}
