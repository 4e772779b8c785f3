package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func writePCMFixture(t *testing.T, path string, samples []int16) {
	t.Helper()
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestConvertFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.pcm")
	dst := filepath.Join(dir, "clip.wav")
	samples := []int16{0, 1000, -1000, 32767, -32768}
	writePCMFixture(t, src, samples)

	if err := ConvertFile(src, dst, 16000); err != nil {
		t.Fatalf("convert: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("open wav: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}
	if dec.SampleRate != 16000 {
		t.Fatalf("expected 16kHz, got %d", dec.SampleRate)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(buf.Data))
	}
	for i, want := range samples {
		if buf.Data[i] != int(want) {
			t.Fatalf("sample %d = %d, want %d", i, buf.Data[i], want)
		}
	}
}

func TestConvertFileRejectsOddLength(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.pcm")
	if err := os.WriteFile(src, []byte{0x01}, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := ConvertFile(src, filepath.Join(dir, "bad.wav"), 16000); err == nil {
		t.Fatal("expected error for unaligned pcm")
	}
}

func TestConvertDir(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePCMFixture(t, filepath.Join(in, "b.pcm"), []int16{1, 2, 3})
	writePCMFixture(t, filepath.Join(in, "a.pcm"), []int16{4, 5, 6})

	n, err := ConvertDir(in, out, 16000)
	if err != nil {
		t.Fatalf("convert dir: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 conversions, got %d", n)
	}
	for _, name := range []string{"a.wav", "b.wav"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
	}
}

func TestConvertDirEmpty(t *testing.T) {
	if _, err := ConvertDir(t.TempDir(), t.TempDir(), 16000); err == nil {
		t.Fatal("expected error when no pcm files present")
	}
}
