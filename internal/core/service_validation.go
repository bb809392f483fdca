package core

import (
	"context"

	"annexvii/internal/validation"
)

// ValidateSubmissions checks a batch of upload rows for accountID against the
// service reference data. An invalid batch is not an error; the result lists
// the failing rows.
func (s *Service) ValidateSubmissions(ctx context.Context, accountID string, rows []validation.Row) (validation.Result, error) {
	var out validation.Result
	err := s.run(ctx, opValidateSubmissions, accountID, func(ctx context.Context) (string, error) {
		res, err := validation.New(s.refData, s.opts.validator).ValidateSubmissions(ctx, rows)
		if err != nil {
			return "", err
		}
		if !res.Valid {
			s.opts.logger.Info("upload rejected", "account", accountID, "rows", len(rows), "failing", len(res.Errors))
		}
		out = res
		return "", nil
	})
	return out, err
}
