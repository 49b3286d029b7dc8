// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package anim

import (
	"sync"

	"github.com/galvanized/cage/math/lin"
)

// cacheKey identifies one armature sample request: a specific entity
// playing a specific animation asset at a specific evaluation
// coefficient (§4.4).
type cacheKey struct {
	Entity uint32
	Anim   uint32
	Coeff  float64
}

// Cache is the per-frame memoizing armature cache (§4.4): "an instance
// sampled once computes and caches the full armature ... for the
// remainder of the frame; subsequent requests reuse it." One Cache
// instance lives for the whole prepare thread and is reset every frame
// via Reset.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]lin.M4
}

// NewCache returns an empty per-frame armature cache.
func NewCache() *Cache { return &Cache{entries: map[cacheKey][]lin.M4{}} }

// Armature returns the sampled armature for (entity, animID, coeff),
// computing and caching it on first request this frame.
func (c *Cache) Armature(entity, animID uint32, coeff float64, clip *Clip) []lin.M4 {
	key := cacheKey{Entity: entity, Anim: animID, Coeff: coeff}
	c.mu.Lock()
	defer c.mu.Unlock()
	if arm, ok := c.entries[key]; ok {
		return arm
	}
	arm := clip.Sample(coeff)
	c.entries[key] = arm
	return arm
}

// Reset clears every cached armature, called once at the start of each
// prepare tick.
func (c *Cache) Reset() {
	c.mu.Lock()
	for k := range c.entries {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}
