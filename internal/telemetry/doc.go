// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

// Package telemetry wraps OpenTelemetry SDK initialization: one place to set
// up the tracer and meter providers. When telemetry is disabled the globals
// stay noop and no external connection is made.
package telemetry
