// Package valkey provides the Valkey driver for db.Store.
package valkey

import (
	"fmt"

	"github.com/askora-cloud/askora/internal/db"
	"github.com/askora-cloud/askora/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Valkey store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store implements db.Store via rueidis for Valkey. Valkey is
// wire-compatible with Redis for every command this service issues; the
// separate package gives driver-specific behavior a home if the two
// diverge.
type Store struct {
	*redis.Store
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	inner, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("valkey store: %w", err)
	}
	return &Store{Store: inner}, nil
}
