package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"annexvii/internal/blob"
	"annexvii/pkg/domain"
)

const archiveContentType = "application/json"

// Archive keeps the finalized document of every declared submission in a
// blob store, keyed by account and submission id.
type Archive struct {
	store blob.Store
}

// NewArchive wraps store.
func NewArchive(store blob.Store) *Archive {
	return &Archive{store: store}
}

// ArchiveKey returns the blob key of a submission's archived document.
func ArchiveKey(accountID, id string) string {
	return path.Join("submissions", accountID, id+".json")
}

// Put writes the submission, replacing any earlier archived copy.
func (a *Archive) Put(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission %s: %w", sub.ID, err)
	}
	key := ArchiveKey(sub.AccountID, sub.ID)
	if _, err := a.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("replace archived submission %s: %w", sub.ID, err)
	}
	md := map[string]string{"state": string(sub.SubmissionState.Status)}
	if v := sub.SubmissionDeclaration.Values; v != nil {
		md["transaction-id"] = v.TransactionID
	}
	if _, err := a.store.Put(ctx, key, bytes.NewReader(body), blob.PutOptions{
		ContentType: archiveContentType,
		Metadata:    md,
	}); err != nil {
		return fmt.Errorf("archive submission %s: %w", sub.ID, err)
	}
	return nil
}

// Get reads an archived submission back.
func (a *Archive) Get(ctx context.Context, accountID, id string) (Submission, error) {
	_, rc, err := a.store.Get(ctx, ArchiveKey(accountID, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, blob.ErrNotFound) {
			return Submission{}, domain.NotFoundError("archived submission %s not found", id)
		}
		return Submission{}, err
	}
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	if err != nil {
		return Submission{}, err
	}
	var sub Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return Submission{}, fmt.Errorf("decode archived submission %s: %w", id, err)
	}
	return sub, nil
}
