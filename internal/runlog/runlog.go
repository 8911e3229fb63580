// Package runlog keeps a journal of runs: one JSON line per run in a daily file,
// with older files gzipped.
package runlog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/types"
)

// Entry is one journal line.
type Entry struct {
	Time string `json:"time"`
	types.RunResult
}

// Journal implements interfaces.RunRecorder.
type Journal struct {
	mu            sync.Mutex
	dir           string
	retentionDays int
	now           func() time.Time
}

func New(dir string, retentionDays int) *Journal {
	if dir == "" {
		dir = "logs"
	}
	return &Journal{dir: dir, retentionDays: retentionDays, now: time.Now}
}

func (j *Journal) dailyFilepath(t time.Time) string {
	return filepath.Join(j.dir, "runs", t.UTC().Format("2006-01-02")+".txt")
}

// Record appends r to today's file, then compresses files past retention.
func (j *Journal) Record(ctx context.Context, r types.RunResult) error {
	if err := j.append(r); err != nil {
		return fmt.Errorf("append run journal: %w", err)
	}
	if n, err := j.CompressOlder(); err != nil {
		logger.Warn(ctx, "Run journal compression failed", "dir", j.dir, "error", err)
	} else if n > 0 {
		logger.Info(ctx, "Compressed old run journals", "files", n)
	}
	return nil
}

func (j *Journal) append(r types.RunResult) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().UTC()
	p := j.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(Entry{Time: now.Format(time.RFC3339), RunResult: r})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files last modified more than retentionDays ago and
// returns how many it compressed. A retention of zero or less keeps everything.
func (j *Journal) CompressOlder() (int, error) {
	if j.retentionDays <= 0 {
		return 0, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	root := filepath.Join(j.dir, "runs")
	cutoff := j.now().AddDate(0, 0, -j.retentionDays)
	compressed := 0

	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			return os.Remove(p)
		}
		if err := gzipFile(p, gz); err != nil {
			return err
		}
		compressed++
		return os.Remove(p)
	})
	return compressed, err
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
