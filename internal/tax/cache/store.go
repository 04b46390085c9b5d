package cache

import (
	"context"
	"time"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

// Entry is a cached calculation and the positional hashes of the items it was computed for.
type Entry struct {
	Document   *taxdomain.TaxDocument `json:"document"`
	ItemHashes []uint64               `json:"item_hashes"`
}

func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	hashes := make([]uint64, len(e.ItemHashes))
	copy(hashes, e.ItemHashes)
	return &Entry{Document: e.Document.Clone(), ItemHashes: hashes}
}

// DocumentStore persists entries by structural key. Get returns a copy the caller may keep.
type DocumentStore interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Put(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
}
