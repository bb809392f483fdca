package core

import (
	"context"
	"errors"
	"time"

	"annexvii/internal/blob"
	"annexvii/internal/infra/persistence/memory"
	"annexvii/internal/referencedata"
	"annexvii/pkg/domain"

	"github.com/google/uuid"
)

// Service operation names, used for tracing, metrics and audit entries.
const (
	opCreateSubmission             = "create_submission"
	opCreateSubmissionFromTemplate = "create_submission_from_template"
	opGetSubmission                = "get_submission"
	opListSubmissions              = "list_submissions"
	opDeleteSubmission             = "delete_submission"
	opCancelSubmission             = "cancel_submission"
	opUpdateActuals                = "update_actuals"
	opGetArchivedSubmission        = "get_archived_submission"
	opGetSection                   = "get_section"
	opSetSection                   = "set_section"
	opSetConfirmation              = "set_submission_confirmation"
	opSetDeclaration               = "set_submission_declaration"
	opCreateTemplate               = "create_template"
	opCreateTemplateFromSubmission = "create_template_from_submission"
	opCreateTemplateFromTemplate   = "create_template_from_template"
	opGetTemplate                  = "get_template"
	opListTemplates                = "list_templates"
	opUpdateTemplateDetails        = "update_template_details"
	opDeleteTemplate               = "delete_template"
	opCreateCarrier                = "create_carrier"
	opGetCarrier                   = "get_carrier"
	opSetCarrier                   = "set_carrier"
	opDeleteCarrier                = "delete_carrier"
	opCreateRecoveryFacility       = "create_recovery_facility"
	opGetRecoveryFacility          = "get_recovery_facility"
	opSetRecoveryFacility          = "set_recovery_facility"
	opDeleteRecoveryFacility       = "delete_recovery_facility"
	opValidateSubmissions          = "validate_submissions"
)

// Service exposes the submission and template operations on top of a
// repository. Each call loads the aggregate, applies a pure mutation and
// saves the result; concurrent edits of one aggregate are last write wins.
type Service struct {
	repo    domain.Repository
	archive *Archive
	refData referencedata.Provider
	opts    serviceOptions
}

type serviceOptions struct {
	clock     Clock
	newID     IDGenerator
	logger    Logger
	audit     AuditRecorder
	metrics   MetricsRecorder
	tracer    Tracer
	archive   blob.Store
	refData   referencedata.Provider
	validator int
}

// ServiceOption customizes a Service.
type ServiceOption func(*serviceOptions)

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		newID:   uuid.NewString,
		logger:  noopLogger{},
		audit:   noopAudit{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
	}
}

// WithClock overrides the time source used for lifecycle timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator overrides how aggregate and entry ids are minted.
func WithIDGenerator(gen IDGenerator) ServiceOption {
	return func(o *serviceOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAuditRecorder sets the recorder receiving audit entries.
func WithAuditRecorder(rec AuditRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if rec != nil {
			o.audit = rec
		}
	}
}

// WithMetricsRecorder sets the recorder observing operation outcomes.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if rec != nil {
			o.metrics = rec
		}
	}
}

// WithTracer sets the tracer wrapping operations in spans.
func WithTracer(tracer Tracer) ServiceOption {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithArchive archives declared submissions into store.
func WithArchive(store blob.Store) ServiceOption {
	return func(o *serviceOptions) { o.archive = store }
}

// WithReferenceData sets the reference data used by bulk validation.
func WithReferenceData(p referencedata.Provider) ServiceOption {
	return func(o *serviceOptions) { o.refData = p }
}

// WithValidationWorkers bounds the rows validated concurrently.
func WithValidationWorkers(n int) ServiceOption {
	return func(o *serviceOptions) { o.validator = n }
}

// NewService constructs a service backed by repo.
func NewService(repo domain.Repository, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Service{repo: repo, refData: o.refData, opts: o}
	if o.archive != nil {
		s.archive = NewArchive(o.archive)
	}
	if s.refData == nil {
		s.refData = referencedata.Empty()
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory repository.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Repository returns the underlying repository.
func (s *Service) Repository() domain.Repository { return s.repo }

// Close releases the repository.
func (s *Service) Close() error { return s.repo.Close() }

func (s *Service) now() time.Time { return s.opts.clock.Now() }

// run wraps fn with tracing, metrics, audit and error classification. fn
// returns the id of the entity it touched.
func (s *Service) run(ctx context.Context, op, accountID string, fn func(ctx context.Context) (string, error)) error {
	started := time.Now()
	ctx, span := s.opts.tracer.Start(ctx, op)
	entityID, err := fn(ctx)
	err = s.classify(op, accountID, err)
	span.End(err)
	elapsed := time.Since(started)
	s.opts.metrics.Observe(ctx, op, err == nil, elapsed)
	s.recordAudit(ctx, op, accountID, entityID, err, elapsed)
	return err
}

// classify maps unexpected failures to a generic Internal error after
// logging the cause. Business errors pass through unchanged.
func (s *Service) classify(op, accountID string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		s.opts.logger.Debug("operation rejected", "operation", op, "account", accountID, "kind", de.Kind, "error", err)
		return err
	}
	s.opts.logger.Error("operation failed", "operation", op, "account", accountID, "error", err)
	if de != nil {
		return de
	}
	return domain.InternalError(err)
}

func (s *Service) recordAudit(ctx context.Context, op, accountID, entityID string, err error, elapsed time.Duration) {
	meta, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		AccountID: accountID,
		Status:    AuditStatusSuccess,
		Duration:  elapsed,
		Timestamp: s.now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.opts.audit.Record(ctx, entry)
}
