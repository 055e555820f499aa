package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/verte-zerg/koch/internal/morse"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
)

// EncodeWAV writes buf as 16-bit PCM WAV. Samples outside [-1, 1] are clipped.
func EncodeWAV(w io.Writer, buf morse.Buffer) error {
	if buf.SampleRate <= 0 || buf.Channels <= 0 {
		return fmt.Errorf("invalid buffer format: %d ch @ %d Hz", buf.Channels, buf.SampleRate)
	}
	blockAlign := buf.Channels * bitsPerSample / 8
	dataSize := len(buf.Samples) * 2

	header := make([]byte, wavHeaderSize)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(36+dataSize))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(header[20:], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:], uint16(buf.Channels))
	binary.LittleEndian.PutUint32(header[24:], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(header[28:], uint32(buf.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:], bitsPerSample)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(dataSize))
	if _, err := w.Write(header); err != nil {
		return err
	}

	data := make([]byte, dataSize)
	for i, s := range buf.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(s*32767)))
	}
	_, err := w.Write(data)
	return err
}

// WriteWAVFile writes buf to path, replacing any existing file atomically.
func WriteWAVFile(path string, buf morse.Buffer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "koch-*.wav")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := EncodeWAV(writer, buf); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush wav: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close wav: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write wav: %w", err)
	}
	return nil
}
