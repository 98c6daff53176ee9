package stock

import (
	"sync"
	"sync/atomic"
)

// Available reports how many more units of a product can be added given
// the remote stock and the quantity already committed to the cart. The
// result never goes negative: if stock dropped below what the cart
// holds, nothing more can be added but removal stays possible.
func Available(remoteStock, inCart int) int {
	if remoteStock < 0 {
		remoteStock = 0
	}
	if inCart < 0 {
		inCart = 0
	}
	if inCart >= remoteStock {
		return 0
	}
	return remoteStock - inCart
}

// Tracker keeps the freshest known remote stock per product. Fetches
// are stamped with a sequence before being issued; a response carrying
// an older stamp than the recorded one is dropped, so a slow fetch
// arriving late cannot overwrite a newer value.
type Tracker struct {
	seq     atomic.Uint64
	mu      sync.Mutex
	entries map[string]stockEntry
}

type stockEntry struct {
	stock int
	seq   uint64
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]stockEntry)}
}

// Next issues the stamp for an upcoming fetch.
func (t *Tracker) Next() uint64 {
	return t.seq.Add(1)
}

// Record stores the fetched stock unless a fresher record exists.
// Negative stock values clamp to zero.
func (t *Tracker) Record(productID string, stock int, seq uint64) {
	if stock < 0 {
		stock = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.entries[productID]; ok && existing.seq > seq {
		return
	}
	t.entries[productID] = stockEntry{stock: stock, seq: seq}
}

// Get returns the freshest recorded stock for the product.
func (t *Tracker) Get(productID string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[productID]
	return entry.stock, ok
}
