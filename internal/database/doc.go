// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

// Package database manages the relational connection pool behind the review
// queue: pool sizing, liveness pings and stats.
package database
