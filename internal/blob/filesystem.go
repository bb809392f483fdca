package blob

import (
	"annexvii/internal/infra/blob/fs"
)

// NewFilesystem returns a Store rooted at the given directory, creating it
// when missing.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
