package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"annexvii/internal/config"
)

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		cfg  config.Blob
		want Driver
	}{
		{"default", config.Blob{}, DriverMemory},
		{"memory", config.Blob{Driver: "memory"}, DriverMemory},
		{"fs", config.Blob{Driver: "fs", FSRoot: t.TempDir()}, DriverFilesystem},
		{"s3", config.Blob{Driver: "s3", S3: config.S3{Bucket: "archive", Region: "eu-west-2", AccessKeyID: "a", SecretAccessKey: "b"}}, DriverS3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := Open(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if store.Driver() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, store.Driver())
			}
		})
	}
	if _, err := Open(ctx, config.Blob{Driver: "gcs"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := Open(ctx, config.Blob{Driver: "s3"}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

// Every backend honours the same replace and not-found contract.
func TestStoreContract(t *testing.T) {
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	stores := map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
		"s3":     NewMockS3ForTests(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := "submissions/acc/s1.json"
			if _, _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, err := store.Put(ctx, key, bytes.NewReader([]byte("v1")), PutOptions{ContentType: "application/json"}); err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, err := store.Put(ctx, key, bytes.NewReader([]byte("v2")), PutOptions{}); !errors.Is(err, ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}
			if ok, err := store.Delete(ctx, key); err != nil || !ok {
				t.Fatalf("delete: %v %v", ok, err)
			}
			if _, err := store.Put(ctx, key, bytes.NewReader([]byte("v2")), PutOptions{Metadata: map[string]string{"state": "x"}}); err != nil {
				t.Fatalf("replace: %v", err)
			}
			info, rc, err := store.Get(ctx, key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			body, _ := io.ReadAll(rc)
			_ = rc.Close()
			if string(body) != "v2" || info.Metadata["state"] != "x" {
				t.Fatalf("unexpected object %q %+v", body, info)
			}
		})
	}
}
