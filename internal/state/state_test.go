package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/playback"
)

func setupTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenPath(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open state: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestGetTransport_Empty(t *testing.T) {
	m := setupTestManager(t)

	got, err := m.GetTransport()
	if err != nil {
		t.Fatalf("GetTransport failed: %v", err)
	}
	if got != playback.DefaultTransport() {
		t.Errorf("GetTransport() = %+v, want defaults", got)
	}
}

func TestSaveAndGetTransport(t *testing.T) {
	m := setupTestManager(t)

	want := playback.TransportState{
		Volume: 0.35,
		Muted:  true,
		Rate:   1.5,
		EQ:     graph.Gains{Bass: 4, Mid: -2.5, Treble: 12},
	}
	if err := saveTransport(t.Context(), m.db, want); err != nil {
		t.Fatalf("saveTransport failed: %v", err)
	}

	got, err := m.GetTransport()
	if err != nil {
		t.Fatalf("GetTransport failed: %v", err)
	}
	if got != want {
		t.Errorf("GetTransport() = %+v, want %+v", got, want)
	}

	// Update overwrites rather than appending rows
	want.Volume = 0.9
	want.EQ = graph.Gains{}
	if err := saveTransport(t.Context(), m.db, want); err != nil {
		t.Fatalf("saveTransport failed: %v", err)
	}
	got, _ = m.GetTransport()
	if got != want {
		t.Errorf("after update = %+v, want %+v", got, want)
	}
}

func TestGetTransport_ClampsStoredGain(t *testing.T) {
	m := setupTestManager(t)

	if _, err := m.db.Exec(`INSERT INTO eq_gains (band, gain) VALUES ('bass', 40), ('sub', 3)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	got, err := m.GetTransport()
	if err != nil {
		t.Fatalf("GetTransport failed: %v", err)
	}
	if got.EQ.Bass != graph.MaxBandGain {
		t.Errorf("bass = %v, want %v", got.EQ.Bass, graph.MaxBandGain)
	}
}

func TestSaveTransport_FlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	m, err := OpenPath(path, nil)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}

	for _, v := range []float64{0.1, 0.2, 0.3} {
		m.SaveTransport(playback.TransportState{Volume: v, Rate: 1})
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenPath(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	got, err := m.GetTransport()
	if err != nil {
		t.Fatalf("GetTransport failed: %v", err)
	}
	if got.Volume != 0.3 {
		t.Errorf("volume = %v, want the last saved 0.3", got.Volume)
	}
}

func TestSaveTransport_Debounced(t *testing.T) {
	m := setupTestManager(t)

	m.SaveTransport(playback.TransportState{Volume: 0.4, Rate: 1})
	m.SaveTransport(playback.TransportState{Volume: 0.6, Rate: 1})

	got, _ := m.GetTransport()
	if got.Volume != 1 {
		t.Fatalf("volume written before debounce: %v", got.Volume)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		got, _ = m.GetTransport()
		if got.Volume == 0.6 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("volume = %v, want 0.6 after debounce", got.Volume)
}

func TestEQPresets(t *testing.T) {
	m := setupTestManager(t)

	id, err := m.SaveEQPreset(" Warm ", graph.Gains{Bass: 6, Treble: -3})
	if err != nil {
		t.Fatalf("SaveEQPreset failed: %v", err)
	}
	if _, err := m.SaveEQPreset("Bright", graph.Gains{Treble: 20}); err != nil {
		t.Fatalf("SaveEQPreset failed: %v", err)
	}

	// Same name updates in place
	again, err := m.SaveEQPreset("Warm", graph.Gains{Bass: 8})
	if err != nil {
		t.Fatalf("SaveEQPreset update failed: %v", err)
	}
	if again != id {
		t.Errorf("update id = %d, want %d", again, id)
	}

	presets, err := m.ListEQPresets()
	if err != nil {
		t.Fatalf("ListEQPresets failed: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("got %d presets, want 2", len(presets))
	}
	if presets[0].Name != "Bright" || presets[1].Name != "Warm" {
		t.Errorf("order = %q, %q; want Bright, Warm", presets[0].Name, presets[1].Name)
	}
	if presets[0].Gains.Treble != graph.MaxBandGain {
		t.Errorf("Bright treble = %v, want clamped %v", presets[0].Gains.Treble, graph.MaxBandGain)
	}
	if presets[1].Gains != (graph.Gains{Bass: 8}) {
		t.Errorf("Warm gains = %+v", presets[1].Gains)
	}

	p, err := m.GetEQPreset("Warm")
	if err != nil || p == nil || p.ID != id {
		t.Fatalf("GetEQPreset = %+v, %v", p, err)
	}

	if err := m.DeleteEQPreset(id); err != nil {
		t.Fatalf("DeleteEQPreset failed: %v", err)
	}
	p, err = m.GetEQPreset("Warm")
	if err != nil || p != nil {
		t.Errorf("after delete GetEQPreset = %+v, %v; want nil, nil", p, err)
	}
}

func TestSaveEQPreset_EmptyName(t *testing.T) {
	m := setupTestManager(t)
	if _, err := m.SaveEQPreset("  ", graph.Gains{}); err != ErrEmptyPresetName {
		t.Errorf("error = %v, want ErrEmptyPresetName", err)
	}
}

func TestLastfmSession(t *testing.T) {
	m := setupTestManager(t)

	s, err := m.GetLastfmSession()
	if err != nil || s != nil {
		t.Fatalf("empty GetLastfmSession = %+v, %v", s, err)
	}

	if err := m.SaveLastfmSession("alice", "key1"); err != nil {
		t.Fatalf("SaveLastfmSession failed: %v", err)
	}
	if err := m.SaveLastfmSession("alice", "key2"); err != nil {
		t.Fatalf("SaveLastfmSession update failed: %v", err)
	}
	s, err = m.GetLastfmSession()
	if err != nil {
		t.Fatalf("GetLastfmSession failed: %v", err)
	}
	if s.Username != "alice" || s.SessionKey != "key2" {
		t.Errorf("session = %+v", s)
	}
	if s.LinkedAt.IsZero() {
		t.Error("LinkedAt not set")
	}

	if err := m.DeleteLastfmSession(); err != nil {
		t.Fatalf("DeleteLastfmSession failed: %v", err)
	}
	s, _ = m.GetLastfmSession()
	if s != nil {
		t.Errorf("session after delete = %+v", s)
	}
}
