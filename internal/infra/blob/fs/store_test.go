package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"annexvii/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	key := "submissions/acc-1/sub-1.json"
	info, err := store.Put(ctx, key, bytes.NewReader([]byte(`{"id":"sub-1"}`)), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"transaction-id": "WM2410_ABCDEF12"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != key || info.Size != 14 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	head, err := store.Head(ctx, key)
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	got, rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(body) != `{"id":"sub-1"}` || got.ETag != head.ETag {
		t.Fatalf("unexpected get %q %+v", body, got)
	}
	if got.ContentType != "application/json" || got.Metadata["transaction-id"] != "WM2410_ABCDEF12" {
		t.Fatalf("attributes lost: %+v", got)
	}
	if !got.LastModified.Equal(got.LastModified.UTC()) {
		t.Fatalf("expected UTC timestamp")
	}

	if ok, err := store.Delete(ctx, key); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, key); err != nil || ok {
		t.Fatalf("second delete should be false")
	}
	if _, err := store.Head(ctx, key); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, _, err := store.Get(ctx, key); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_ListOrderAndPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"submissions/b/1.json", "submissions/a/2.json", "submissions/a/1.json"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	list, err := store.List(ctx, "submissions/a/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "submissions/a/1.json" || list[1].Key != "submissions/a/2.json" {
		t.Fatalf("unexpected list %+v", list)
	}
	all, err := store.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v %d", err, len(all))
	}
}

func TestCleanKeyRejects(t *testing.T) {
	for _, key := range []string{"", "  ", "../escape", "/abs", "a/../b", "x.attrs"} {
		if _, err := cleanKey(key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
	if k, err := cleanKey("a/./b.json"); err != nil || k != "a/b.json" {
		t.Fatalf("unexpected clean result %q %v", k, err)
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestStore_PutFailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "bad.json", errorReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected copy error")
	}
	if _, err := store.Head(ctx, "bad.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
	list, err := store.List(ctx, "")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list: %v %+v", err, list)
	}
}

func TestStore_CorruptSidecar(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	data := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(data, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	if err := os.WriteFile(data+attrsSuffix, []byte("{"), 0o644); err != nil {
		t.Fatalf("write attrs: %v", err)
	}
	if _, err := store.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list error on corrupt sidecar")
	}
	if _, err := store.Head(context.Background(), "bad.json"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestNewRejectsFileRoot(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "afile")
	if err := os.WriteFile(filePath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := New(filePath); err == nil {
		t.Fatalf("expected error when root is a file")
	}
}
