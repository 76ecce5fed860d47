package stores

import (
	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/value"
)

var _ environment.Store = (*Ristretto)(nil)

// Ristretto is a bounded environment.Store. Every entry costs 1, so capacity is
// the number of cached values; entries past it are evicted by ristretto's
// admission policy and recomputed on demand.
type Ristretto struct {
	cache *ristretto.Cache[string, value.Value]
}

func NewRistretto(capacity int64) (*Ristretto, error) {
	if capacity <= 0 {
		capacity = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, value.Value]{
		NumCounters:        capacity * 10, // ristretto recommends 10x the expected entries.
		MaxCost:            capacity,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{cache: cache}, nil
}

func (r *Ristretto) Load(name string) (value.Value, bool) {
	return r.cache.Get(name)
}

// Store waits for the set to be applied so that the next Load observes it.
func (r *Ristretto) Store(name string, v value.Value) {
	r.cache.Set(name, v, 1)
	r.cache.Wait()
}

func (r *Ristretto) Delete(name string) {
	r.cache.Del(name)
}

func (r *Ristretto) Clear() {
	r.cache.Clear()
}

// Close stops ristretto's background goroutines.
func (r *Ristretto) Close() {
	r.cache.Close()
}
