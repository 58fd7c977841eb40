package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is reported when the fetched bytes match no decoder.
var ErrUnsupportedFormat = errors.New("player: unsupported format")

// fetch downloads and decodes src, then installs it if it is still current.
func (e *Element) fetch(ctx context.Context, src Source) {
	data, err := e.read(ctx, src.URL)
	if err == nil {
		e.logger.Debug("source fetched",
			zap.Uint64("token", src.Token),
			zap.String("size", humanize.Bytes(uint64(len(data)))))
	}
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		e.emit(Event{Kind: EventError, Token: src.Token, Err: fmt.Errorf("fetch: %w", err)})
		return
	}

	s, format, err := decode(data)
	if err != nil {
		e.emit(Event{Kind: EventError, Token: src.Token, Err: fmt.Errorf("decode: %w", err)})
		return
	}
	if !e.install(src, s, format) {
		_ = s.Close()
	}
}

// read loads the whole source in memory so decoders can seek freely.
func (e *Element) read(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
		if err != nil {
			return nil, err
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status: %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	case "file":
		return os.ReadFile(u.Path)
	case "":
		return os.ReadFile(raw)
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
}

// memReader gives an in-memory buffer the Close method decoders expect.
type memReader struct {
	*bytes.Reader
}

func (memReader) Close() error { return nil }

// decode picks a decoder from the container magic.
func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	r := memReader{bytes.NewReader(data)}
	switch sniff(data) {
	case "flac":
		if _, err := r.Seek(id3v2Size(data), io.SeekStart); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(r)
	case "wav":
		return wav.Decode(r)
	case "ogg":
		return vorbis.Decode(r)
	case "mp3":
		return mp3.Decode(r)
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}

func sniff(data []byte) string {
	body := data[min(id3v2Size(data), int64(len(data))):]
	switch {
	case bytes.HasPrefix(body, []byte("fLaC")):
		return "flac"
	case bytes.HasPrefix(body, []byte("RIFF")) && len(body) >= 12 && string(body[8:12]) == "WAVE":
		return "wav"
	case bytes.HasPrefix(body, []byte("OggS")):
		return "ogg"
	case len(body) >= 2 && body[0] == 0xFF && body[1]&0xE0 == 0xE0:
		return "mp3"
	case bytes.HasPrefix(data, []byte("ID3")):
		return "mp3"
	default:
		return ""
	}
}

// id3v2Size returns the length of a leading ID3v2 tag, 0 when absent.
// Some taggers prepend one to FLAC files, which the FLAC decoder rejects.
func id3v2Size(data []byte) int64 {
	if len(data) < 10 || string(data[0:3]) != "ID3" {
		return 0
	}
	// syncsafe integer, 7 bits per byte
	size := int64(data[6])<<21 | int64(data[7])<<14 | int64(data[8])<<7 | int64(data[9])
	return 10 + size
}
