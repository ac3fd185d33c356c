package audit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSink appends audit lines to <dir>/<YYYYMMDD>.log, one file per day.
type FileSink struct {
	dir string
	now func() time.Time

	mu     sync.Mutex
	day    string
	file   *os.File
	logger *slog.Logger
}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &FileSink{dir: dir, now: time.Now}, nil
}

func (f *FileSink) Write(_ context.Context, entry Entry) error {
	return f.WriteLine(entry.Message(), "entity", entry.Entity, "entity_id", entry.EntityID, "action", string(entry.Action))
}

// WriteLine appends a raw message; used by the queue consumer as well.
func (f *FileSink) WriteLine(message string, attrs ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.rotate(); err != nil {
		return err
	}
	f.logger.Info(message, attrs...)
	return nil
}

func (f *FileSink) rotate() error {
	day := f.now().Format("20060102")
	if f.file != nil && f.day == day {
		return nil
	}

	path := filepath.Join(f.dir, day+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if f.file != nil {
		_ = f.file.Close()
	}

	f.file = file
	f.day = day
	f.logger = slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return nil
}

func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
