package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultBatchSize     = 50
	defaultFlushInterval = 5 * time.Second
)

type DBHandlerOptions struct {
	Level         slog.Leveler
	BatchSize     int
	FlushInterval time.Duration
}

// DBHandler is an slog.Handler that batches records at or above Level
// (ERROR by default) into the system_logs table.
type DBHandler struct {
	sink  *logSink
	level slog.Leveler
	attrs []slog.Attr
}

// logSink is shared by a handler and every handler derived from it with
// WithAttrs, so all of them flush through one buffer.
type logSink struct {
	db        *gorm.DB
	batchSize int

	mu     sync.Mutex
	buffer []models.SystemLog

	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewDBHandler(db *gorm.DB, opts DBHandlerOptions) *DBHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelError
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaultFlushInterval
	}

	sink := &logSink{
		db:        db,
		batchSize: opts.BatchSize,
		buffer:    make([]models.SystemLog, 0, opts.BatchSize),
		ticker:    time.NewTicker(opts.FlushInterval),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go sink.flushLoop()
	return &DBHandler{sink: sink, level: opts.Level}
}

func (s *logSink) flushLoop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *logSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, s.batchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, s.batchSize).Error; err != nil {
		// stdout only; logging through the default logger would loop back here
		slog.New(stdoutHandler(slog.LevelInfo)).Error("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop writes out whatever is buffered and ends the flush goroutine. It is
// safe to call more than once.
func (h *DBHandler) Stop() {
	h.sink.stopOnce.Do(func() {
		h.sink.ticker.Stop()
		close(h.sink.done)
	})
	<-h.sink.stopped
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time.UTC(),
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "trace_id":
			entry.TraceID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			switch v := a.Value.Any().(type) {
			case float64:
				entry.LatencyMs = int(math.Round(v))
			case int64:
				entry.LatencyMs = int(v)
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.sink
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= s.batchSize
	s.mu.Unlock()

	if needFlush {
		go s.flush()
	}
	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{sink: h.sink, level: h.level, attrs: merged}
}

// WithGroup is a no-op; the table has no place for nested groups.
func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}
