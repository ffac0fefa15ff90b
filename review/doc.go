// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

// Package review stores questions the assistant could not answer so the
// brand owner can resolve them later. The queue is relational (sqlite or
// postgres through gorm); answering a question hands its text back to the
// caller, which turns it into a knowledge fact.
package review
