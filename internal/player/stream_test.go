package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	id3 := append([]byte("ID3\x04\x00\x00\x00\x00\x00\x04"), 0, 0, 0, 0)
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"flac", []byte("fLaC\x00\x00"), "flac"},
		{"flac behind id3", append(append([]byte{}, id3...), []byte("fLaC")...), "flac"},
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), "wav"},
		{"riff not wave", []byte("RIFF\x00\x00\x00\x00AVI "), ""},
		{"ogg", []byte("OggS\x00"), "ogg"},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x00}, "mp3"},
		{"mp3 behind id3", append(append([]byte{}, id3...), 0xFF, 0xFB), "mp3"},
		{"garbage", []byte("hello world"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniff(tt.data))
		})
	}
}

func TestID3v2Size(t *testing.T) {
	assert.Equal(t, int64(0), id3v2Size([]byte("fLaC")))
	assert.Equal(t, int64(0), id3v2Size([]byte("ID3")))
	// syncsafe 0x00 0x00 0x02 0x01 = 2<<7 | 1 = 257
	hdr := []byte("ID3\x04\x00\x00\x00\x00\x02\x01")
	assert.Equal(t, int64(10+257), id3v2Size(hdr))
}

func TestDecode_Unsupported(t *testing.T) {
	_, _, err := decode([]byte("definitely not audio"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_WAV(t *testing.T) {
	data := encodeWAV(t, 4410, 0.5)
	s, format, err := decode(data)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 44100, int(format.SampleRate))
	assert.Equal(t, 4410, s.Len())
}
