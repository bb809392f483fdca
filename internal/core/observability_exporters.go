package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"annexvii/pkg/domain"
)

var expvarSeq uint64

// ExpvarRecorder publishes per-operation call counts and latency totals
// under a single expvar map. Keys are "<operation>.ok", "<operation>.error"
// and "<operation>.ms".
type ExpvarRecorder struct {
	name string
	vars *expvar.Map
}

// NewExpvarRecorder publishes a recorder under name, or under a generated
// unique name when name is empty. expvar names are process global, so a
// name may only be used once.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		name = fmt.Sprintf("annexvii_operations_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	return &ExpvarRecorder{name: name, vars: expvar.NewMap(name)}
}

// Name returns the expvar export name.
func (r *ExpvarRecorder) Name() string { return r.name }

// Observe implements MetricsRecorder.
func (r *ExpvarRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	outcome := ".error"
	if success {
		outcome = ".ok"
	}
	r.vars.Add(operation+outcome, 1)
	r.vars.AddFloat(operation+".ms", float64(duration)/float64(time.Millisecond))
}

// Count returns the number of calls of operation with the given outcome.
func (r *ExpvarRecorder) Count(operation string, success bool) int64 {
	key := operation + ".error"
	if success {
		key = operation + ".ok"
	}
	if v, ok := r.vars.Get(key).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}

// SpanRecord is one finished span written by JSONLinesTracer.
type SpanRecord struct {
	Operation  string           `json:"operation"`
	Outcome    string           `json:"outcome"`
	ErrorKind  domain.ErrorKind `json:"error_kind,omitempty"`
	Error      string           `json:"error,omitempty"`
	DurationMS float64          `json:"duration_ms"`
	StartedAt  time.Time        `json:"started_at"`
}

// JSONLinesTracer writes each finished span as one JSON line and keeps the
// records for inspection.
type JSONLinesTracer struct {
	mu      sync.Mutex
	records []SpanRecord
	enc     *json.Encoder
	now     func() time.Time
}

// NewJSONLinesTracer writes spans to w; a nil w only retains them.
func NewJSONLinesTracer(w io.Writer) *JSONLinesTracer {
	t := &JSONLinesTracer{now: func() time.Time { return time.Now().UTC() }}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// Records returns a copy of every finished span.
func (t *JSONLinesTracer) Records() []SpanRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SpanRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Start implements Tracer.
func (t *JSONLinesTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonLinesSpan{tracer: t, operation: operation, started: t.now()}
}

type jsonLinesSpan struct {
	tracer    *JSONLinesTracer
	operation string
	started   time.Time
	once      sync.Once
}

func (s *jsonLinesSpan) End(err error) {
	s.once.Do(func() {
		rec := SpanRecord{
			Operation:  s.operation,
			Outcome:    "ok",
			DurationMS: float64(s.tracer.now().Sub(s.started)) / float64(time.Millisecond),
			StartedAt:  s.started,
		}
		if err != nil {
			rec.Outcome = "error"
			rec.ErrorKind = domain.KindOf(err)
			rec.Error = err.Error()
		}
		s.tracer.mu.Lock()
		defer s.tracer.mu.Unlock()
		s.tracer.records = append(s.tracer.records, rec)
		if s.tracer.enc != nil {
			_ = s.tracer.enc.Encode(rec)
		}
	})
}

// SlogAuditRecorder writes audit entries to a slog logger at info level, or
// warn level for failed operations.
type SlogAuditRecorder struct {
	logger *slog.Logger
}

// NewSlogAuditRecorder returns a recorder over logger, or slog.Default when nil.
func NewSlogAuditRecorder(logger *slog.Logger) *SlogAuditRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAuditRecorder{logger: logger}
}

// Record implements AuditRecorder.
func (r *SlogAuditRecorder) Record(ctx context.Context, e AuditEntry) {
	level := slog.LevelInfo
	if e.Status == AuditStatusError {
		level = slog.LevelWarn
	}
	r.logger.LogAttrs(ctx, level, "audit",
		slog.String("operation", e.Operation),
		slog.String("entity", string(e.Entity)),
		slog.String("action", string(e.Action)),
		slog.String("entity_id", e.EntityID),
		slog.String("account", e.AccountID),
		slog.String("status", string(e.Status)),
		slog.String("error", e.Error),
		slog.Duration("duration", e.Duration),
		slog.Time("at", e.Timestamp),
	)
}
