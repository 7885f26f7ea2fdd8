// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

/*
Package cache provides a thread-safe in-memory cache with TTL support.

It backs the recommendation engine's response cache so that repeated queries
for the same song and attribute selection skip the greedy scan.

# Overview

  - Thread-safe concurrent access (sync.RWMutex)
  - Per-entry expiration, checked lazily on Get and swept periodically
  - Hit, miss and eviction counters for monitoring
  - Deterministic keys via GenerateKey (sha256 over the JSON-encoded parameters)

# Usage

	c := cache.New(5 * time.Minute)
	defer c.Stop()

	key := cache.GenerateKey("recommend", params)
	if v, ok := c.Get(key); ok {
	    return v.(*Response), nil
	}
	c.Set(key, resp)
*/
package cache
