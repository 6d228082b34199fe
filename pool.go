// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bart

import (
	"sync"
	"sync/atomic"
)

// pool is a type-safe wrapper around sync.Pool specialized for managing
// *node[V] instances. It reuses node memory during bulk insert and
// tracks allocation statistics for diagnostics.
type pool[V any] struct {
	sync.Pool

	totalAllocated atomic.Int64 // total number of *node[V] ever allocated
	currentLive    atomic.Int64 // nodes currently checked out
}

// newPool returns a pool that mints *node[V] via newNode[V] on demand.
func newPool[V any]() *pool[V] {
	p := &pool[V]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return newNode[V]()
	}
	return p
}

// get retrieves a *node[V] from the pool, or mints a new one.
func (p *pool[V]) get() *node[V] {
	if p == nil {
		return newNode[V]()
	}
	p.currentLive.Add(1)
	return p.Pool.Get().(*node[V])
}

// put returns n to the pool after resetting its contents. put must only
// be called with a node that is no longer reachable from any table: once
// returned, its storage may be handed back out and overwritten.
func (p *pool[V]) put(n *node[V]) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	n.reset()
	p.Pool.Put(n)
}

// stats returns the number of currently live (checked-out) nodes and the
// total number of nodes ever allocated by this pool.
func (p *pool[V]) stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
