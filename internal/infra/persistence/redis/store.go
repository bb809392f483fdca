// Package redis stores submissions and templates as JSON values in Redis with
// one id set per account and kind for listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"annexvii/pkg/domain"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key when no prefix is configured.
const DefaultPrefix = "annexvii"

// Client is the subset of go-redis commands the store issues.
// *goredis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	SAdd(ctx context.Context, key string, members ...any) *goredis.IntCmd
	SRem(ctx context.Context, key string, members ...any) *goredis.IntCmd
	SMembers(ctx context.Context, key string) *goredis.StringSliceCmd
	MGet(ctx context.Context, keys ...string) *goredis.SliceCmd
	Close() error
}

// Options configures a connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis-backed domain.Repository. Template name checks are
// serialized within the process only.
type Store struct {
	client Client
	prefix string
	mu     sync.Mutex
}

var _ domain.Repository = (*Store)(nil)

// NewStore connects to the server described by opts and pings it.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: strings.TrimSuffix(prefix, ":")}
}

func (s *Store) docKey(kind, accountID, id string) string {
	return fmt.Sprintf("%s:%s:%s:%s", s.prefix, kind, accountID, id)
}

func (s *Store) indexKey(kind, accountID string) string {
	return fmt.Sprintf("%s:%s-index:%s", s.prefix, kind, accountID)
}

const (
	kindSubmission = "submission"
	kindTemplate   = "template"
)

func (s *Store) get(ctx context.Context, kind, accountID, id string, out any) (bool, error) {
	raw, err := s.client.Get(ctx, s.docKey(kind, accountID, id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", kind, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("redis decode %s: %w", kind, err)
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, kind, accountID, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", kind, err)
	}
	if err := s.client.Set(ctx, s.docKey(kind, accountID, id), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", kind, err)
	}
	if err := s.client.SAdd(ctx, s.indexKey(kind, accountID), id).Err(); err != nil {
		return fmt.Errorf("redis index %s: %w", kind, err)
	}
	return nil
}

// all decodes every document of kind for accountID. Index entries whose
// value has gone are skipped.
func all[T any](ctx context.Context, s *Store, kind, accountID string) ([]T, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey(kind, accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis members %s: %w", kind, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(kind, accountID, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget %s: %w", kind, err)
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			return nil, fmt.Errorf("redis decode %s: %w", kind, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// GetSubmission returns the submission unless it is missing or hidden.
func (s *Store) GetSubmission(ctx context.Context, id, accountID string) (domain.Submission, error) {
	var sub domain.Submission
	ok, err := s.get(ctx, kindSubmission, accountID, id, &sub)
	if err != nil {
		return domain.Submission{}, err
	}
	if !ok || sub.SubmissionState.Status.Hidden() {
		return domain.Submission{}, domain.NotFoundError("submission %s not found", id)
	}
	return sub, nil
}

// SaveSubmission writes the submission and indexes it under accountID.
func (s *Store) SaveSubmission(ctx context.Context, submission domain.Submission, accountID string) error {
	submission.AccountID = accountID
	return s.put(ctx, kindSubmission, accountID, submission.ID, submission)
}

// ListSubmissions pages through the visible submissions of accountID.
func (s *Store) ListSubmissions(ctx context.Context, accountID string, opts domain.ListOptions) (domain.Page[domain.SubmissionSummary], error) {
	order, err := domain.ValidateOrder(opts.Order)
	if err != nil {
		return domain.Page[domain.SubmissionSummary]{}, err
	}
	subs, err := all[domain.Submission](ctx, s, kindSubmission, accountID)
	if err != nil {
		return domain.Page[domain.SubmissionSummary]{}, err
	}
	visible := subs[:0]
	for _, v := range subs {
		if domain.MatchesStates(v, opts.States) {
			visible = append(visible, v)
		}
	}
	domain.SortSubmissions(visible, order)
	summaries := make([]domain.SubmissionSummary, len(visible))
	for i, v := range visible {
		summaries[i] = v.Summarize()
	}
	return domain.Paginate(summaries, opts)
}

// GetTemplate returns the template or a NotFound error.
func (s *Store) GetTemplate(ctx context.Context, id, accountID string) (domain.Template, error) {
	var t domain.Template
	ok, err := s.get(ctx, kindTemplate, accountID, id, &t)
	if err != nil {
		return domain.Template{}, err
	}
	if !ok {
		return domain.Template{}, domain.NotFoundError("template %s not found", id)
	}
	return t, nil
}

// SaveTemplate writes the template after checking its name is unused by
// the other templates of the account.
func (s *Store) SaveTemplate(ctx context.Context, template domain.Template, accountID string) error {
	template.AccountID = accountID
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := all[domain.Template](ctx, s, kindTemplate, accountID)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(template.TemplateDetails.Name)
	for _, t := range existing {
		if t.ID != template.ID && strings.EqualFold(strings.TrimSpace(t.TemplateDetails.Name), name) {
			return domain.ConflictError("template name %q already exists", name)
		}
	}
	return s.put(ctx, kindTemplate, accountID, template.ID, template)
}

// ListTemplates pages through the templates of accountID.
func (s *Store) ListTemplates(ctx context.Context, accountID string, opts domain.ListOptions) (domain.Page[domain.TemplateSummary], error) {
	order, err := domain.ValidateOrder(opts.Order)
	if err != nil {
		return domain.Page[domain.TemplateSummary]{}, err
	}
	list, err := all[domain.Template](ctx, s, kindTemplate, accountID)
	if err != nil {
		return domain.Page[domain.TemplateSummary]{}, err
	}
	domain.SortTemplates(list, order)
	summaries := make([]domain.TemplateSummary, len(list))
	for i, v := range list {
		summaries[i] = v.Summarize()
	}
	return domain.Paginate(summaries, opts)
}

// DeleteTemplate removes the template and its index entry.
func (s *Store) DeleteTemplate(ctx context.Context, id, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.client.Del(ctx, s.docKey(kindTemplate, accountID, id)).Result()
	if err != nil {
		return fmt.Errorf("redis del template: %w", err)
	}
	if err := s.client.SRem(ctx, s.indexKey(kindTemplate, accountID), id).Err(); err != nil {
		return fmt.Errorf("redis unindex template: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError("template %s not found", id)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error { return s.client.Close() }
