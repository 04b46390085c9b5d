// Package memory holds an in-process catalog used by tests and local runs.
package memory

import (
	"context"
	"strings"
	"sync"

	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
)

type Catalog struct {
	mu   sync.RWMutex
	skus map[string]catalogdomain.Sku
}

func NewCatalog(skus ...catalogdomain.Sku) *Catalog {
	c := &Catalog{skus: make(map[string]catalogdomain.Sku, len(skus))}
	for _, sku := range skus {
		c.Put(sku)
	}
	return c
}

func (c *Catalog) Put(sku catalogdomain.Sku) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skus[strings.TrimSpace(sku.Code)] = sku
}

func (c *Catalog) FindSku(_ context.Context, code string) (*catalogdomain.Sku, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, catalogdomain.ErrInvalidSkuCode
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	sku, ok := c.skus[code]
	if !ok {
		return nil, nil
	}
	return &sku, nil
}
