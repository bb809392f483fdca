package blob

import (
	memorystore "annexvii/internal/infra/blob/memory"
)

// NewMemory returns a process-local Store.
func NewMemory() Store { return memorystore.New() }
