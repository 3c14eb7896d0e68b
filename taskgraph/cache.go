// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package taskgraph

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// cacheLog scopes eviction logging the way the teacher scopes its own
// subsystem loggers (auth.NewAuditLog's WithField("system", ...)).
var cacheLog = logrus.WithField("component", "task_cache")

// Sizer is implemented by task values whose cache weight should count
// against the cache's byte budget rather than its fixed entry count
// (tables are the typical case; scalars and scales are cheap and fall
// back to a weight of 1).
type Sizer interface {
	ByteSize() int
}

func weightOf(v TaskValue) int {
	if s, ok := v.Scalar.(Sizer); ok {
		return s.ByteSize()
	}
	if v.Table != nil {
		if s, ok := v.Table.(Sizer); ok {
			return s.ByteSize()
		}
	}
	return 1
}

// ValueCache is the bounded task-value cache of §4.6: entries are keyed
// by state_fingerprint, evicted LRU once either the entry count or the
// cumulative byte weight exceeds its configured caps, and computed at
// most once concurrently per key via a singleflight group.
type ValueCache struct {
	maxBytes int

	mu         sync.Mutex
	entries    *lru.Cache[uint64, cacheEntry]
	totalBytes int

	group singleflight.Group
}

type cacheEntry struct {
	value  TaskValue
	weight int
}

// NewValueCache builds a cache bounded by both maxEntries (a hard cap
// on distinct fingerprints held) and maxBytes (a soft cap on summed
// entry weight; 0 disables the byte cap).
func NewValueCache(maxEntries, maxBytes int) (*ValueCache, error) {
	c := &ValueCache{maxBytes: maxBytes}
	entries, err := lru.NewWithEvict[uint64, cacheEntry](maxEntries, func(fp uint64, v cacheEntry) {
		c.totalBytes -= v.weight
		cacheLog.WithFields(logrus.Fields{"fingerprint": fp, "weight": v.weight}).Debug("evicted cache entry")
	})
	if err != nil {
		return nil, fmt.Errorf("building task value cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

// Get returns the cached value for fp, if present.
func (c *ValueCache) Get(fp uint64) (TaskValue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(fp)
	if !ok {
		return TaskValue{}, false
	}
	return e.value, true
}

// GetOrCompute returns the cached value for fp, computing it via
// compute exactly once even under concurrent callers racing on the
// same fp (the third named cache guarantee of §4.6): concurrent misses
// on the same fingerprint share one in-flight computation rather than
// each invoking compute.
func (c *ValueCache) GetOrCompute(fp uint64, compute func() (TaskValue, error)) (TaskValue, error) {
	if v, ok := c.Get(fp); ok {
		return v, nil
	}

	key := fmt.Sprintf("%d", fp)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(fp); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return TaskValue{}, err
		}
		c.put(fp, v)
		return v, nil
	})
	if err != nil {
		return TaskValue{}, err
	}
	return v.(TaskValue), nil
}

func (c *ValueCache) put(fp uint64, v TaskValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := weightOf(v)
	c.entries.Add(fp, cacheEntry{value: v, weight: w})
	c.totalBytes += w
	if c.maxBytes > 0 && c.totalBytes > c.maxBytes {
		cacheLog.WithFields(logrus.Fields{"total_bytes": c.totalBytes, "max_bytes": c.maxBytes}).Debug("byte budget exceeded, evicting oldest entries")
		for c.totalBytes > c.maxBytes {
			if _, _, ok := c.entries.RemoveOldest(); !ok {
				break
			}
		}
	}
}

// Len returns the number of entries currently held.
func (c *ValueCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
