// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package types provides the shared type definitions for the brand agent
platform. It is the lowest-level public package and depends on no other
package in the module, so every other package can import it without
creating cycles.

Core types:

  - Message / Role         — a single conversation turn (human or assistant)
  - ConversationState      — the per-conversation record threaded through every turn
  - AgentName              — top-level agent identifier; steps are plain strings
  - KnowledgeFact          — an immutable, owner-scoped knowledge fragment
  - UnansweredQuestion     — a logged query that had no close-enough fact
  - Error / ErrorCode      — structured errors with retryability metadata
*/
package types
