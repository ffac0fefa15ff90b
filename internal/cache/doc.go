// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

// Package cache provides a Redis-backed embedding cache. Repeated texts are
// common in this service: the same question is embedded for retrieval and
// again for deduplication, and sticky flows re-embed owner facts. Caching
// cuts those round trips to the embedding provider.
package cache
