// Package journal appends one zstd-compressed JSON line per tick, rotating files by tick range.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"colonyai/internal/app/ports"
)

const DefaultTicksPerFile = 10000

type Writer struct {
	baseDir      string
	prefix       string
	ticksPerFile int64

	mu        sync.Mutex
	curBucket int64
	f         *os.File
	enc       *zstd.Encoder
	w         *bufio.Writer
}

func NewWriter(baseDir string) *Writer {
	return &Writer{
		baseDir:      baseDir,
		prefix:       "ticks",
		ticksPerFile: DefaultTicksPerFile,
		curBucket:    -1,
	}
}

func (w *Writer) Append(_ context.Context, rec ports.TickRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	bucket := rec.Tick / w.ticksPerFile
	if bucket != w.curBucket || w.w == nil {
		if err := w.rotateLocked(bucket); err != nil {
			return fmt.Errorf("rotate journal: %w", err)
		}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode tick %d: %w", rec.Tick, err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// PathForTick is the file that holds tick.
func (w *Writer) PathForTick(tick int64) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%08d.jsonl.zst", w.prefix, tick/w.ticksPerFile))
}

func (w *Writer) rotateLocked(bucket int64) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.PathForTick(bucket*w.ticksPerFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curBucket = bucket
	return nil
}

func (w *Writer) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

// ReadFile decodes every tick record in a journal file.
func ReadFile(path string) ([]ports.TickRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out := make([]ports.TickRecord, 0)
	jd := json.NewDecoder(dec)
	for {
		var rec ports.TickRecord
		if err := jd.Decode(&rec); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, fmt.Errorf("decode %s: %w", path, err)
		}
		out = append(out, rec)
	}
}
