// Package testutil holds the import guards that keep annexvii's layers apart.
package testutil

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Forbidden reports whether a package may not import importPath.
type Forbidden func(importPath string) bool

// AssertNoDirectImports parses the non-test .go files in dir and fails t when
// any import matches forbidden. Build tags are not evaluated.
func AssertNoDirectImports(t testing.TB, dir string, forbidden Forbidden, reason string) {
	t.Helper()
	viols, err := DirectImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
	}
	if len(viols) > 0 {
		t.Fatalf("forbidden imports (%s):\n%s", reason, strings.Join(viols, "\n"))
	}
}

// DirectImportViolations lists "import (in file)" for every forbidden import
// of the non-test files in dir, sorted.
func DirectImportViolations(dir string, forbidden Forbidden) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range file.Imports {
			ip := strings.Trim(imp.Path.Value, `"`)
			if forbidden(ip) {
				viols = append(viols, fmt.Sprintf("%s (in %s)", ip, name))
			}
		}
	}
	sort.Strings(viols)
	return viols, nil
}

// InternalImport matches any annexvii internal package.
func InternalImport(path string) bool {
	return strings.HasPrefix(path, "annexvii/internal/")
}

// StorageImport matches the persistence and blob backends, and the drivers
// they are built on.
func StorageImport(path string) bool {
	for _, prefix := range []string{
		"annexvii/internal/infra/",
		"database/sql",
		"github.com/jackc/pgx",
		"github.com/redis/go-redis",
		"modernc.org/sqlite",
		"github.com/aws/aws-sdk-go-v2",
	} {
		if path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AnyOf matches when any of preds matches.
func AnyOf(preds ...Forbidden) Forbidden {
	return func(path string) bool {
		for _, p := range preds {
			if p(path) {
				return true
			}
		}
		return false
	}
}
