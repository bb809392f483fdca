package core

import (
	"context"
	"errors"
	"io"
	"testing"

	"annexvii/internal/blob"
	"annexvii/pkg/domain"

	"github.com/shopspring/decimal"
)

// brokenBlobStore fails every call.
type brokenBlobStore struct{}

var errBlobDown = errors.New("bucket unavailable")

func (brokenBlobStore) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errBlobDown
}
func (brokenBlobStore) Get(context.Context, string) (blob.Info, io.ReadCloser, error) {
	return blob.Info{}, nil, errBlobDown
}
func (brokenBlobStore) Head(context.Context, string) (blob.Info, error) { return blob.Info{}, errBlobDown }
func (brokenBlobStore) Delete(context.Context, string) (bool, error)    { return false, errBlobDown }
func (brokenBlobStore) List(context.Context, string) ([]blob.Info, error) {
	return nil, errBlobDown
}
func (brokenBlobStore) Driver() blob.Driver { return blob.DriverMemory }

func TestArchiveKey(t *testing.T) {
	if got := ArchiveKey("acc", "s1"); got != "submissions/acc/s1.json" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestArchiveRoundTripAndReplace(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	archive := NewArchive(store)

	sub := completeSubmission()
	sub.SubmissionState.Status = domain.StateSubmittedWithEstimates
	sub.SubmissionDeclaration = SubmissionDeclaration{
		Status: StatusComplete,
		Values: &domain.Declaration{DeclarationTimestamp: epoch, TransactionID: "WM2404_ABCD"},
	}
	if err := archive.Put(ctx, sub); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := store.Head(ctx, ArchiveKey(sub.AccountID, sub.ID))
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.ContentType != archiveContentType || info.Metadata["transaction-id"] != "WM2404_ABCD" || info.Metadata["state"] != string(domain.StateSubmittedWithEstimates) {
		t.Fatalf("unexpected blob info %+v", info)
	}

	sub.SubmissionState.Status = domain.StateUpdatedWithActuals
	if err := archive.Put(ctx, sub); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := archive.Get(ctx, sub.AccountID, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SubmissionState.Status != domain.StateUpdatedWithActuals {
		t.Fatalf("expected replaced copy, got %s", got.SubmissionState.Status)
	}
	wq, ok := got.WasteQuantity.Payload()
	if !ok || !wq.EstimateData.Value.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("waste quantity did not survive the archive: %+v", got.WasteQuantity)
	}
	if len(got.Carriers.Values) != 1 || got.Carriers.Values[0].ID != "c-1" {
		t.Fatalf("carriers did not survive the archive: %+v", got.Carriers)
	}
}

func TestArchiveMissingAndBroken(t *testing.T) {
	ctx := context.Background()
	_, err := NewArchive(blob.NewMemory()).Get(ctx, "acc", "nope")
	expectKind(t, err, domain.KindNotFound)

	broken := NewArchive(brokenBlobStore{})
	if err := broken.Put(ctx, completeSubmission()); !errors.Is(err, errBlobDown) {
		t.Fatalf("expected wrapped blob error, got %v", err)
	}
	if _, err := broken.Get(ctx, "acc", "s1"); !errors.Is(err, errBlobDown) {
		t.Fatalf("expected blob error, got %v", err)
	}
}
