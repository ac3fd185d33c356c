package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Bus fans entries out to every subscribed sink.
type Bus struct {
	sinks  []Sink
	logger *slog.Logger
	async  bool
	mu     sync.RWMutex
	wg     sync.WaitGroup
}

// NewBus returns an asynchronous bus: Record returns before sinks run.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger, async: true}
}

// NewSyncBus returns a bus whose Record blocks until every sink has run.
func NewSyncBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

func (b *Bus) Subscribe(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sinks = append(b.sinks, sink)
	b.logger.Info("audit sink registered", "total_sinks", len(b.sinks))
}

func (b *Bus) Record(ctx context.Context, entry Entry) {
	b.mu.RLock()
	sinks := make([]Sink, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.RUnlock()

	if len(sinks) == 0 {
		b.logger.Debug("no audit sinks", "entity", entry.Entity, "entity_id", entry.EntityID)
		return
	}

	// sinks outlive the request that produced the entry
	ctx = context.WithoutCancel(ctx)

	for _, sink := range sinks {
		if !b.async {
			b.write(ctx, sink, entry)
			continue
		}
		b.wg.Add(1)
		go func(s Sink) {
			defer b.wg.Done()
			b.write(ctx, s, entry)
		}(sink)
	}
}

// Wait blocks until in-flight asynchronous writes finish.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) write(ctx context.Context, sink Sink, entry Entry) {
	if err := sink.Write(ctx, entry); err != nil {
		b.logger.Error("audit sink failed",
			"entity", entry.Entity,
			"entity_id", entry.EntityID,
			"action", entry.Action,
			"error", err)
	}
}
