package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/resolve"
	"github.com/llehouerou/wavestream/internal/state"
)

type fixture struct {
	srv    *Server
	router http.Handler
	eng    *playback.Engine
	media  *player.Mock
	graph  *graph.Mock
	state  *state.Mock
}

func newFixture(t *testing.T, opts playback.Options) *fixture {
	t.Helper()
	f := &fixture{media: player.NewMock(), graph: graph.NewMock(), state: state.NewMock()}
	opts.Graph = func() (graph.Interface, error) { return f.graph, nil }
	opts.CleanupYield = -1
	f.eng = playback.New(f.media, opts)
	t.Cleanup(func() { _ = f.eng.Close() })
	f.srv = NewServer(f.eng, f.state, nil)
	f.router = f.srv.Router()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// playing starts track a and waits for the engine to report playing.
func (f *fixture) playing(t *testing.T) {
	t.Helper()
	f.media.SetDuration(3 * time.Minute)
	w := f.do(t, http.MethodPost, "/play", `{"track":{"id":"a","title":"Song","stream_url":"https://cdn.example.com/a.mp3"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f.media.Emit(player.EventCanPlay)
	require.Eventually(t, func() bool {
		return f.eng.Snapshot().Status == playback.StatusPlaying
	}, time.Second, 5*time.Millisecond)
}

func TestServer_Router(t *testing.T) {
	f := newFixture(t, playback.Options{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/state"},
		{http.MethodGet, "/spectrum"},
		{http.MethodGet, "/metrics"},
		{http.MethodPost, "/pause"},
		{http.MethodPost, "/stop"},
		{http.MethodPost, "/mute"},
		{http.MethodPost, "/eq/reset"},
		{http.MethodGet, "/eq/presets"},
	}
	for _, tt := range tests {
		w := f.do(t, tt.method, tt.path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s %s = %d, want 200", tt.method, tt.path, w.Code)
		}
	}
}

func TestServer_PlayPauseToggle(t *testing.T) {
	f := newFixture(t, playback.Options{})
	f.playing(t)

	loads := f.media.Loads()
	require.Len(t, loads, 1)
	assert.Equal(t, "https://cdn.example.com/a.mp3", loads[0].URL)

	w := f.do(t, http.MethodPost, "/pause", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, playback.StatusPaused, f.eng.Snapshot().Status)

	// empty body toggles the current track
	w = f.do(t, http.MethodPost, "/play", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, playback.StatusPlaying, f.eng.Snapshot().Status)
	assert.Len(t, f.media.Loads(), 1, "toggle must not reload")
}

func TestServer_PlayErrors(t *testing.T) {
	f := newFixture(t, playback.Options{})

	w := f.do(t, http.MethodPost, "/play", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/play", `{"track":{"title":"no id"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/play", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// placeholder without a resolver
	w = f.do(t, http.MethodPost, "/play", `{"track":{"id":"p","title":"Ghost"}}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Contains(t, body["error"], "'Ghost'")
}

func TestServer_ResolutionFailureCounted(t *testing.T) {
	failing := resolve.Func(func(context.Context, string) (string, error) {
		return "", errors.New("backend down")
	})
	f := newFixture(t, playback.Options{Resolver: failing})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.srv.watch(ctx, f.eng.Subscribe())

	w := f.do(t, http.MethodPost, "/play", `{"track":{"id":"p"}}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	require.Eventually(t, func() bool {
		body := f.do(t, http.MethodGet, "/metrics", "").Body.String()
		return strings.Contains(body, `wavestream_failures_total{kind="resolution failed"} 1`) &&
			strings.Contains(body, `wavestream_loads_total 1`) &&
			strings.Contains(body, `wavestream_status{status="error"} 1`)
	}, time.Second, 10*time.Millisecond)
}

func TestServer_Transport(t *testing.T) {
	f := newFixture(t, playback.Options{})
	f.playing(t)

	tests := []struct {
		path string
		body string
		code int
	}{
		{"/volume", `{"volume":2}`, http.StatusOK},
		{"/volume", `{}`, http.StatusBadRequest},
		{"/rate", `{"rate":0.1}`, http.StatusOK},
		{"/rate", `{}`, http.StatusBadRequest},
		{"/eq", `{"band":"bass","gain":20}`, http.StatusOK},
		{"/eq", `{"band":"sub","gain":1}`, http.StatusBadRequest},
		{"/seek", `{"position":60}`, http.StatusOK},
		{"/skip", `{"delta":-15}`, http.StatusOK},
	}
	for _, tt := range tests {
		w := f.do(t, http.MethodPost, tt.path, tt.body)
		if w.Code != tt.code {
			t.Errorf("POST %s %s = %d, want %d", tt.path, tt.body, w.Code, tt.code)
		}
	}

	tr := f.eng.Snapshot().Transport
	assert.InDelta(t, 1.0, tr.Volume, 1e-9)
	assert.InDelta(t, playback.MinRate, tr.Rate, 1e-9)
	assert.InDelta(t, graph.MaxBandGain, tr.EQ.Bass, 1e-9)

	f.do(t, http.MethodPost, "/mute", "")
	assert.True(t, f.eng.Snapshot().Transport.Muted)
	f.do(t, http.MethodPost, "/mute", "")
	assert.False(t, f.eng.Snapshot().Transport.Muted)
	assert.InDelta(t, 1.0, f.eng.Snapshot().Transport.Volume, 1e-9)

	f.do(t, http.MethodPost, "/eq/reset", "")
	assert.Equal(t, graph.Gains{}, f.eng.Snapshot().Transport.EQ)
}

func TestServer_State(t *testing.T) {
	f := newFixture(t, playback.Options{})
	f.playing(t)
	f.media.SetPosition(90 * time.Second)
	f.media.Emit(player.EventTimeUpdate)
	require.Eventually(t, func() bool {
		return f.eng.Snapshot().CurrentTime == 90*time.Second
	}, time.Second, 5*time.Millisecond)

	w := f.do(t, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Type     string `json:"type"`
		Snapshot struct {
			Status  string `json:"status"`
			Session string `json:"session"`
			Track   struct {
				ID string `json:"id"`
			} `json:"track"`
		} `json:"snapshot"`
		Projection struct {
			CurrentTime string  `json:"current_time"`
			Duration    string  `json:"duration"`
			Progress    float64 `json:"progress"`
		} `json:"projection"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "state", got.Type)
	assert.Equal(t, "playing", got.Snapshot.Status)
	assert.Equal(t, "a", got.Snapshot.Track.ID)
	assert.Equal(t, f.eng.Snapshot().Session, got.Snapshot.Session)
	assert.NotEmpty(t, got.Snapshot.Session)
	assert.Equal(t, "1:30", got.Projection.CurrentTime)
	assert.Equal(t, "3:00", got.Projection.Duration)
	assert.InDelta(t, 50.0, got.Projection.Progress, 1e-9)
}

func TestServer_Spectrum(t *testing.T) {
	f := newFixture(t, playback.Options{})
	f.graph.SetFrequencyData([]uint8{0, 128, 255})

	w := f.do(t, http.MethodGet, "/spectrum", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Bins []int `json:"bins"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, []int{0, 128, 255}, got.Bins)
}

func TestServer_Presets(t *testing.T) {
	f := newFixture(t, playback.Options{})
	f.eng.UpdateEQ(graph.BandBass, 6)
	f.eng.UpdateEQ(graph.BandTreble, -3)

	w := f.do(t, http.MethodPost, "/eq/presets", `{"name":"warm"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/eq/presets", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.eng.ResetEQ()
	w = f.do(t, http.MethodPost, "/eq/presets/warm/apply", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, graph.Gains{Bass: 6, Treble: -3}, f.eng.Snapshot().Transport.EQ)

	w = f.do(t, http.MethodPost, "/eq/presets/missing/apply", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/eq/presets", "")
	var list struct {
		Presets []state.EQPreset `json:"presets"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Presets, 1)
	assert.Equal(t, "warm", list.Presets[0].Name)

	w = f.do(t, http.MethodDelete, "/eq/presets/"+strconv.FormatInt(list.Presets[0].ID, 10), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodDelete, "/eq/presets/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_PresetsUnavailable(t *testing.T) {
	eng := playback.New(player.NewMock(), playback.Options{})
	t.Cleanup(func() { _ = eng.Close() })
	router := NewServer(eng, nil, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/eq/presets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestServer_WebsocketPush(t *testing.T) {
	f := newFixture(t, playback.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.srv.watch(ctx, f.eng.Subscribe())

	ts := httptest.NewServer(f.router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	readState := func() map[string]any {
		t.Helper()
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	welcome := readState()
	assert.Equal(t, "state", welcome["type"])

	require.Eventually(t, func() bool { return f.srv.hub.count() == 1 }, time.Second, 5*time.Millisecond)
	f.eng.ChangeVolume(0.25)

	for {
		msg := readState()
		snap := msg["snapshot"].(map[string]any)
		tr := snap["transport"].(map[string]any)
		if tr["volume"] == 0.25 {
			break
		}
	}
}

func TestServer_WebsocketRejectsForeignOrigin(t *testing.T) {
	f := newFixture(t, playback.Options{})
	ts := httptest.NewServer(f.router)
	defer ts.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example.com")
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_ServeShutsDown(t *testing.T) {
	f := newFixture(t, playback.Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
