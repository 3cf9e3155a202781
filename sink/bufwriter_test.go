package sink_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/coregx/dedup/sink"
)

func TestBufWriterFlushesOnOverflow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	s, err := sink.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	w := sink.NewBufWriterSize(s, 8)
	var want bytes.Buffer
	for i := 0; i < 20; i++ {
		chunk := []byte("abc")
		want.Write(chunk)
		if _, err := w.Write(chunk); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Fatalf("got %d bytes, want %d bytes matching input", len(got), want.Len())
	}
}

func TestBufWriterBypassesStagingForOversizedWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	s, err := sink.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	w := sink.NewBufWriterSize(s, 4)
	oversized := bytes.Repeat([]byte("x"), 100)
	if _, err := w.Write(oversized); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, oversized) {
		t.Fatalf("got %d bytes, want %d", len(got), len(oversized))
	}
}

func TestBufWriterFlushOnEmptyIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	s, err := sink.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	w := sink.NewBufWriter(s)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
}
