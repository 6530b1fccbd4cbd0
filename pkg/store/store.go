// Package store provides the public API for the magbook SQLite store.
// It exposes the factory function for creating store instances while
// keeping implementation details internal.
package store

import (
	"github.com/coilworks/magbook/internal/sqlite"
	"github.com/coilworks/magbook/pkg/types"
)

// NewStore creates a new SQLite-backed store instance.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	s := store.NewStore()
//	err := s.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".magbook-db",
//	})
//	defer s.Detach()
func NewStore() types.Store {
	return sqlite.NewBackend()
}
