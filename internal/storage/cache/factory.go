package cache

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// NewFromConfig builds the cache selected by [cache] store.
func NewFromConfig(cfg *common.Config, logger *common.Logger) (interfaces.Cache, error) {
	switch cfg.Cache.Store {
	case "", "memory":
		return NewMemory(), nil
	case "badger":
		return NewBadger(cfg.Cache.Path, logger)
	default:
		return nil, fmt.Errorf("unknown cache store %q", cfg.Cache.Store)
	}
}
