package core

import (
	"context"
	"time"
)

// Logger is the structured logging surface used by the service. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// MetricsRecorder observes the outcome and latency of service operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the operation error, if any.
type TraceSpan interface {
	End(err error)
}

// AuditStatus records whether an audited operation succeeded.
type AuditStatus string

// Audit statuses.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntity names the aggregate or entry an audited operation touched.
type AuditEntity string

// Audited entities.
const (
	AuditEntitySubmission       AuditEntity = "submission"
	AuditEntityTemplate         AuditEntity = "template"
	AuditEntitySection          AuditEntity = "section"
	AuditEntityCarrier          AuditEntity = "carrier"
	AuditEntityRecoveryFacility AuditEntity = "recovery_facility"
)

// AuditAction names the kind of change made.
type AuditAction string

// Audit actions.
const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditEntry describes one mutating service operation.
type AuditEntry struct {
	Operation string
	Entity    AuditEntity
	Action    AuditAction
	EntityID  string
	AccountID string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives audit entries for mutating operations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

type operationMeta struct {
	entity AuditEntity
	action AuditAction
}

// auditedOperations maps mutating operations to their audit metadata.
// Operations missing here are traced and measured but not audited.
var auditedOperations = map[string]operationMeta{
	opCreateSubmission:             {AuditEntitySubmission, AuditActionCreate},
	opCreateSubmissionFromTemplate: {AuditEntitySubmission, AuditActionCreate},
	opDeleteSubmission:             {AuditEntitySubmission, AuditActionDelete},
	opCancelSubmission:             {AuditEntitySubmission, AuditActionUpdate},
	opUpdateActuals:                {AuditEntitySubmission, AuditActionUpdate},
	opSetSection:                   {AuditEntitySection, AuditActionUpdate},
	opSetConfirmation:              {AuditEntitySection, AuditActionUpdate},
	opSetDeclaration:               {AuditEntitySubmission, AuditActionUpdate},
	opCreateTemplate:               {AuditEntityTemplate, AuditActionCreate},
	opCreateTemplateFromSubmission: {AuditEntityTemplate, AuditActionCreate},
	opCreateTemplateFromTemplate:   {AuditEntityTemplate, AuditActionCreate},
	opUpdateTemplateDetails:        {AuditEntityTemplate, AuditActionUpdate},
	opDeleteTemplate:               {AuditEntityTemplate, AuditActionDelete},
	opCreateCarrier:                {AuditEntityCarrier, AuditActionCreate},
	opSetCarrier:                   {AuditEntityCarrier, AuditActionUpdate},
	opDeleteCarrier:                {AuditEntityCarrier, AuditActionDelete},
	opCreateRecoveryFacility:       {AuditEntityRecoveryFacility, AuditActionCreate},
	opSetRecoveryFacility:          {AuditEntityRecoveryFacility, AuditActionUpdate},
	opDeleteRecoveryFacility:       {AuditEntityRecoveryFacility, AuditActionDelete},
}
