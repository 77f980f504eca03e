package blob

import (
	memorystore "restaurantcore/internal/infra/blob/memory"
)

// NewMemory returns a process-local blob.Store. Archives written to it are
// lost when the process exits, so it backs tests and dry runs only.
func NewMemory() Store { return memorystore.New() }
