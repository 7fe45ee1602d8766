package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"colonyai/internal/app/ports"
)

// ListTicks reads records with from <= tick <= to (zero bounds are open) in tick order, keeping
// the last limit of them. The live file is sealed first so its frame is complete on disk; the
// next Append reopens it.
func (w *Writer) ListTicks(_ context.Context, from, to int64, limit int) ([]ports.TickRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.closeLocked(); err != nil {
		return nil, fmt.Errorf("seal journal: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(w.baseDir, w.prefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]ports.TickRecord, 0)
	for _, p := range paths {
		recs, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if from > 0 && rec.Tick < from {
				continue
			}
			if to > 0 && rec.Tick > to {
				continue
			}
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
