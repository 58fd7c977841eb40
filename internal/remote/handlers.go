package remote

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/track"
)

const maxBodySize = 64 << 10

type playRequest struct {
	// Track is optional; without it the current track is toggled.
	Track *track.Descriptor `json:"track"`
}

// Seek and skip take seconds.
type seekRequest struct {
	Position float64 `json:"position"`
}

type skipRequest struct {
	Delta float64 `json:"delta"`
}

type volumeRequest struct {
	Volume *float64 `json:"volume"`
}

type rateRequest struct {
	Rate *float64 `json:"rate"`
}

type eqRequest struct {
	Band string  `json:"band"`
	Gain float64 `json:"gain"`
}

type presetRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stateMessage())
}

func (s *Server) handleSpectrum(w http.ResponseWriter, _ *http.Request) {
	data := s.service.FrequencyData()
	bins := make([]int, len(data))
	for i, v := range data {
		bins[i] = int(v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"bins": bins})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade", zap.Error(err))
		return
	}
	c := &client{hub: s.hub, conn: conn, send: make(chan []byte, sendBuffer)}
	s.hub.register(c)

	if msg, err := json.Marshal(s.stateMessage()); err == nil {
		c.send <- msg
	}

	go c.writePump()
	go c.readPump()
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	t := req.Track
	if t == nil {
		t = s.service.Snapshot().Track
		if t == nil {
			writeError(w, http.StatusConflict, "no track loaded")
			return
		}
	}

	if err := s.service.PlayTrack(r.Context(), t); err != nil {
		s.writePlayError(w, t, err)
		return
	}
	s.handleState(w, r)
}

func (s *Server) writePlayError(w http.ResponseWriter, t *track.Descriptor, err error) {
	var perr *playback.Error
	switch {
	case errors.Is(err, track.ErrMissingID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, playback.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &perr):
		writeError(w, http.StatusBadGateway, userError(t, perr))
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.service.PauseTrack()
	s.handleState(w, r)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.service.StopTrack()
	s.handleState(w, r)
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if !decode(w, r, &req) {
		return
	}
	s.service.SeekTo(seconds(req.Position))
	s.handleState(w, r)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	var req skipRequest
	if !decode(w, r, &req) {
		return
	}
	s.service.SkipTime(seconds(req.Delta))
	s.handleState(w, r)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Volume == nil {
		writeError(w, http.StatusBadRequest, "volume is required")
		return
	}
	s.service.ChangeVolume(*req.Volume)
	s.handleState(w, r)
}

func (s *Server) handleMute(w http.ResponseWriter, r *http.Request) {
	s.service.ToggleMute()
	s.handleState(w, r)
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Rate == nil {
		writeError(w, http.StatusBadRequest, "rate is required")
		return
	}
	s.service.ChangePlaybackRate(*req.Rate)
	s.handleState(w, r)
}

func (s *Server) handleEQ(w http.ResponseWriter, r *http.Request) {
	var req eqRequest
	if !decode(w, r, &req) {
		return
	}
	band, ok := graph.ParseBand(req.Band)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown band "+strconv.Quote(req.Band))
		return
	}
	s.service.UpdateEQ(band, req.Gain)
	s.handleState(w, r)
}

func (s *Server) handleEQReset(w http.ResponseWriter, r *http.Request) {
	s.service.ResetEQ()
	s.handleState(w, r)
}

func (s *Server) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	if !s.requirePresets(w) {
		return
	}
	presets, err := s.presets.ListEQPresets()
	if err != nil {
		s.logger.Warn("list presets", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errmsg.Format(errmsg.OpPresetLoad, err))
		return
	}
	if presets == nil {
		presets = []state.EQPreset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": presets})
}

// handleSavePreset stores the current EQ under the given name.
func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	if !s.requirePresets(w) {
		return
	}
	var req presetRequest
	if !decode(w, r, &req) {
		return
	}
	gains := s.service.Snapshot().Transport.EQ
	id, err := s.presets.SaveEQPreset(req.Name, gains)
	if errors.Is(err, state.ErrEmptyPresetName) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Warn("save preset", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errmsg.Format(errmsg.OpPresetSave, err))
		return
	}
	writeJSON(w, http.StatusCreated, state.EQPreset{ID: id, Name: req.Name, Gains: gains})
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	if !s.requirePresets(w) {
		return
	}
	name := chi.URLParam(r, "name")
	p, err := s.presets.GetEQPreset(name)
	if err != nil {
		s.logger.Warn("get preset", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errmsg.Format(errmsg.OpPresetApply, err))
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "no preset named "+strconv.Quote(name))
		return
	}
	for _, b := range graph.Bands {
		s.service.UpdateEQ(b, p.Gains.Get(b))
	}
	s.handleState(w, r)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if !s.requirePresets(w) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid preset id")
		return
	}
	if err := s.presets.DeleteEQPreset(id); err != nil {
		s.logger.Warn("delete preset", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errmsg.Format(errmsg.OpPresetDelete, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requirePresets(w http.ResponseWriter) bool {
	if s.presets == nil {
		writeError(w, http.StatusNotImplemented, "presets are not available")
		return false
	}
	return true
}

func userError(t *track.Descriptor, err error) string {
	title := ""
	if t != nil {
		title = t.DisplayTitle()
	}
	return errmsg.Playback(title, err)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// decodeOptional accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
