// Package fs stores archive objects as files under a root directory. Each
// object has a JSON sidecar (<file>.attrs) holding its content type,
// metadata, digest and timestamp.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"annexvii/internal/blob/core"
)

const (
	attrsSuffix = ".attrs"
	defaultRoot = "./blobdata"
)

// Store implements core.Store on the local filesystem. It is safe for one
// writer per key.
type Store struct {
	root string
}

// New returns a store rooted at root, creating the directory if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = defaultRoot
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Driver reports core.DriverFilesystem.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

type attrs struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	SHA256      string            `json:"sha256"`
	Size        int64             `json:"size"`
	WrittenAt   time.Time         `json:"written_at"`
}

func (a attrs) info(key string) core.Info {
	return core.Info{
		Key:          key,
		Size:         a.Size,
		ContentType:  a.ContentType,
		ETag:         a.SHA256,
		Metadata:     core.CloneMetadata(a.Metadata),
		LastModified: a.WrittenAt,
	}
}

// cleanKey rejects keys that are empty, absolute or escape the root.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("blob: empty key")
	}
	if strings.HasPrefix(key, "/") || filepath.IsAbs(key) {
		return "", fmt.Errorf("blob: absolute key %q", key)
	}
	for _, part := range strings.Split(filepath.ToSlash(key), "/") {
		if part == ".." {
			return "", fmt.Errorf("blob: key %q escapes root", key)
		}
	}
	if strings.HasSuffix(key, attrsSuffix) {
		return "", fmt.Errorf("blob: key %q uses reserved suffix", key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func (s *Store) paths(key string) (data, side string, err error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	data = filepath.Join(s.root, filepath.FromSlash(k))
	return data, data + attrsSuffix, nil
}

// Put writes r to a temp file then renames it into place.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	if err := ctx.Err(); err != nil {
		return core.Info{}, err
	}
	dataPath, sidePath, err := s.paths(key)
	if err != nil {
		return core.Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrExists)
	}
	dir := filepath.Dir(dataPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.Info{}, err
	}
	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return core.Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	digest := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, digest), r)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return core.Info{}, fmt.Errorf("blob %s: write: %w", key, err)
	}

	a := attrs{
		ContentType: opts.ContentType,
		Metadata:    core.CloneMetadata(opts.Metadata),
		SHA256:      hex.EncodeToString(digest.Sum(nil)),
		Size:        size,
		WrittenAt:   time.Now().UTC(),
	}
	if err := writeAttrs(sidePath, a); err != nil {
		return core.Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		_ = os.Remove(sidePath)
		return core.Info{}, err
	}
	return a.info(key), nil
}

// Get opens the object file. The caller closes the returned reader.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	dataPath, sidePath, err := s.paths(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	file, err := os.Open(dataPath)
	if err != nil {
		return core.Info{}, nil, notFound(key, err)
	}
	a, err := readAttrs(sidePath)
	if err != nil {
		_ = file.Close()
		return core.Info{}, nil, notFound(key, err)
	}
	return a.info(key), file, nil
}

// Head reads the sidecar only.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	_, sidePath, err := s.paths(key)
	if err != nil {
		return core.Info{}, err
	}
	a, err := readAttrs(sidePath)
	if err != nil {
		return core.Info{}, notFound(key, err)
	}
	return a.info(key), nil
}

// Delete removes the object file and its sidecar.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	dataPath, sidePath, err := s.paths(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(dataPath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := os.Remove(sidePath); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return true, err
	}
	return true, nil
}

// List walks the root collecting sidecars whose key has prefix.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	var out []core.Info
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, attrsSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(path, attrsSuffix))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		a, err := readAttrs(path)
		if err != nil {
			return fmt.Errorf("blob %s: %w", key, err)
		}
		out = append(out, a.info(key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func notFound(key string, err error) error {
	if errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	return err
}

func writeAttrs(path string, a attrs) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readAttrs(path string) (attrs, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return attrs{}, err
	}
	var a attrs
	if err := json.Unmarshal(b, &a); err != nil {
		return attrs{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return a, nil
}
