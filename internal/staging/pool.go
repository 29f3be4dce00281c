// Package staging pools the host-side byte slices used to stage pixel
// rows for buffer/texture transfers.
package staging

import "sync"

// Pool is a thread-safe pool of byte slices grouped by length.
//
// Frames of one video profile share a size, so a pool holding a few
// slices per length removes the per-frame allocation of staging memory.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]byte
	maxSize int // max slices per bucket
}

// NewPool creates a pool keeping at most maxPerBucket slices of each
// length. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]byte),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed slice of length size, reusing a pooled one when
// available. It returns nil for a non-positive size.
func (p *Pool) Get(size int) []byte {
	if size <= 0 {
		return nil
	}

	p.mu.Lock()
	bucket := p.buckets[size]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[size] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		clear(buf)
		return buf
	}
	p.mu.Unlock()

	return make([]byte, size)
}

// Put returns buf to the pool. Empty slices and slices beyond the bucket
// capacity are dropped.
func (p *Pool) Put(buf []byte) {
	if len(buf) == 0 {
		return
	}
	size := len(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[size]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[size] = append(bucket, buf[:size:size])
}

// Len returns the number of pooled slices of length size.
func (p *Pool) Len(size int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[size])
}
