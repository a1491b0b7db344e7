// Package sqlite provides the public constructor for the SQLite local store.
// The implementation stays internal; callers program against types.Store.
package sqlite

import (
	"github.com/mesh-intelligence/blogctl/internal/sqlite"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = sqlite.DBFileName

// NewStore creates a new SQLite store instance.
// The store is not attached; call Attach with a data directory first.
//
// Example:
//
//	store := sqlite.NewStore()
//	if err := store.Attach(dataDir); err != nil {
//	    return err
//	}
//	defer store.Detach()
func NewStore() types.Store {
	return sqlite.NewBackend()
}
