// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

// Package migration manages the relational schema for the review queue.
// SQL migrations are embedded per dialect (sqlite, postgres) and applied
// through golang-migrate.
package migration
