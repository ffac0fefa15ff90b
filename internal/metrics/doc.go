// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

// Package metrics collects Prometheus metrics for turn processing and the
// chat transport. This package is internal and should not be imported by
// external projects.
package metrics
