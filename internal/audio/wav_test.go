package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/koch/internal/morse"
)

func TestEncodeWAVHeader(t *testing.T) {
	buf := morse.Buffer{Samples: []float32{0, 1, -1, 2}, SampleRate: 8000, Channels: 1}
	var out bytes.Buffer
	if err := EncodeWAV(&out, buf); err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	b := out.Bytes()
	if len(b) != wavHeaderSize+8 {
		t.Fatalf("expected %d bytes, got %d", wavHeaderSize+8, len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q %q %q", b[0:4], b[8:12], b[36:40])
	}
	if got := binary.LittleEndian.Uint32(b[24:]); got != 8000 {
		t.Fatalf("sample rate = %d, want 8000", got)
	}
	if got := binary.LittleEndian.Uint32(b[40:]); got != 8 {
		t.Fatalf("data size = %d, want 8", got)
	}
	samples := []int16{0, 32767, -32767, 32767}
	for i, want := range samples {
		got := int16(binary.LittleEndian.Uint16(b[wavHeaderSize+i*2:]))
		if got != want {
			t.Fatalf("sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestEncodeWAVInvalidFormat(t *testing.T) {
	if err := EncodeWAV(&bytes.Buffer{}, morse.Buffer{}); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
}

func TestWriteWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lesson.wav")
	buf := morse.Buffer{Samples: make([]float32, 100), SampleRate: 8000, Channels: 1}
	if err := WriteWAVFile(path, buf); err != nil {
		t.Fatalf("WriteWAVFile() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != int64(wavHeaderSize+200) {
		t.Fatalf("file size = %d, want %d", info.Size(), wavHeaderSize+200)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "koch-*.wav"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}
