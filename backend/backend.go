// ABOUTME: Backend factory selecting the storage implementation at startup
// ABOUTME: One explicit decision per process; callers receive injected stores
package backend

import (
	"github.com/gsteen1788/bd-os-sub000/db"
	"github.com/gsteen1788/bd-os-sub000/memstore"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// Open constructs the store aggregate for cfg. Unrecognized backend
// kinds fall back to the transient in-memory store so every entity
// family is always bound to a functional repository.
func Open(cfg store.Config) (*store.Stores, error) {
	switch cfg.Backend {
	case store.BackendSQLite:
		return db.Open(cfg.Path)
	case store.BackendMemory:
		return memstore.Open(), nil
	default:
		return memstore.Open(), nil
	}
}
