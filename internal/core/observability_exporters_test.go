package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"expvar"
	"log/slog"
	"strings"
	"testing"
	"time"

	"annexvii/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestExpvarRecorder(t *testing.T) {
	rec := NewExpvarRecorder("")
	if expvar.Get(rec.Name()) == nil {
		t.Fatalf("expected %s published", rec.Name())
	}
	rec.Observe(context.Background(), opCreateSubmission, true, 3*time.Millisecond)
	rec.Observe(context.Background(), opCreateSubmission, true, time.Millisecond)
	rec.Observe(context.Background(), opCreateSubmission, false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)

	if got := rec.Count(opCreateSubmission, true); got != 2 {
		t.Fatalf("expected 2 successes, got %d", got)
	}
	if got := rec.Count(opCreateSubmission, false); got != 1 {
		t.Fatalf("expected 1 failure, got %d", got)
	}
	if got := rec.Count(opDeleteTemplate, true); got != 0 {
		t.Fatalf("expected no calls, got %d", got)
	}
	if other := NewExpvarRecorder(""); other.Name() == rec.Name() {
		t.Fatalf("generated names must be unique")
	}
}

func TestServiceWithExpvarRecorder(t *testing.T) {
	rec := NewExpvarRecorder("")
	svc := newTestService(WithMetricsRecorder(rec))
	if _, err := svc.CreateSubmission(context.Background(), "acc", "REF"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetSubmission(context.Background(), "acc", "missing"); err == nil {
		t.Fatalf("expected not found")
	}
	if rec.Count(opCreateSubmission, true) != 1 || rec.Count(opGetSubmission, false) != 1 {
		t.Fatalf("unexpected counts in %s", expvar.Get(rec.Name()).String())
	}
}

func TestJSONLinesTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONLinesTracer(&buf)
	_, span := tracer.Start(context.Background(), opSetSection)
	span.End(domain.BadRequestError("nope"))
	span.End(nil)
	_, ok := tracer.Start(context.Background(), opGetSection)
	ok.End(nil)

	records := tracer.Records()
	if len(records) != 2 {
		t.Fatalf("expected each span recorded once, got %d", len(records))
	}
	if records[0].Outcome != "error" || records[0].ErrorKind != domain.KindBadRequest || records[1].Outcome != "ok" {
		t.Fatalf("unexpected records %+v", records)
	}

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		var rec SpanRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d is not json: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}

	silent := NewJSONLinesTracer(nil)
	_, s := silent.Start(context.Background(), opGetSection)
	s.End(nil)
	if len(silent.Records()) != 1 {
		t.Fatalf("expected record kept without a writer")
	}
}

func TestSlogAuditRecorder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := newTestService(WithAuditRecorder(NewSlogAuditRecorder(logger)))

	if _, err := svc.CreateTemplate(context.Background(), "acc", "Weekly", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateTemplate(context.Background(), "acc", "Weekly", ""); err == nil {
		t.Fatalf("expected conflict")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two audit lines, got %q", buf.String())
	}
	var ok, failed map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &failed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok["level"] != "INFO" || ok["operation"] != opCreateTemplate || ok["entity"] != "template" || ok["status"] != "success" {
		t.Fatalf("unexpected success entry %v", ok)
	}
	if failed["level"] != "WARN" || failed["status"] != "error" || !strings.Contains(failed["error"].(string), "already exists") {
		t.Fatalf("unexpected failure entry %v", failed)
	}
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := newTestService(WithMetricsRecorder(rec))
	ctx := context.Background()
	if _, err := svc.CreateSubmission(ctx, "acc", "REF"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateSubmission(ctx, "acc", ""); err == nil {
		t.Fatalf("expected bad request")
	}

	if got := testutil.ToFloat64(rec.calls.WithLabelValues(opCreateSubmission, "ok")); got != 1 {
		t.Fatalf("expected one ok call, got %v", got)
	}
	if got := testutil.ToFloat64(rec.calls.WithLabelValues(opCreateSubmission, "error")); got != 1 {
		t.Fatalf("expected one failed call, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.latency, "annexvii_operation_duration_seconds"); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}

	if _, err := NewPrometheusRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestOTelTracer(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	svc := newTestService(WithTracer(NewOTelTracer(provider)))
	ctx := context.Background()
	if _, err := svc.CreateSubmission(ctx, "acc", "REF"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetSubmission(ctx, "acc", "missing"); err == nil {
		t.Fatalf("expected not found")
	}
	broken := NewService(failingRepository{Store: nil, err: context.DeadlineExceeded},
		WithTracer(NewOTelTracer(provider)))
	if _, err := broken.CreateTemplate(ctx, "acc", "Weekly", ""); err == nil {
		t.Fatalf("expected internal error")
	}

	spans := rec.Ended()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		byName[s.Name()] = s
		if s.SpanKind() != trace.SpanKindInternal {
			t.Fatalf("span %s has kind %v", s.Name(), s.SpanKind())
		}
	}

	if c := byName[opCreateSubmission].Status().Code; c != codes.Ok {
		t.Fatalf("expected ok status, got %v", c)
	}
	miss := byName[opGetSubmission]
	if miss.Status().Code == codes.Error {
		t.Fatalf("business rejections must not mark the span as an error")
	}
	if !hasAttribute(miss.Attributes(), "annexvii.error_kind", string(domain.KindNotFound)) {
		t.Fatalf("expected error kind attribute, got %v", miss.Attributes())
	}
	if len(miss.Events()) == 0 {
		t.Fatalf("expected the rejection recorded as an event")
	}
	if c := byName[opCreateTemplate].Status().Code; c != codes.Error {
		t.Fatalf("expected error status for internal failures, got %v", c)
	}
	if !hasAttribute(byName[opCreateTemplate].Attributes(), "annexvii.operation", opCreateTemplate) {
		t.Fatalf("expected operation attribute")
	}
}

func hasAttribute(attrs []attribute.KeyValue, key, value string) bool {
	for _, kv := range attrs {
		if string(kv.Key) == key && kv.Value.AsString() == value {
			return true
		}
	}
	return false
}
