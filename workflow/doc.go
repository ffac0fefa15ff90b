// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package workflow is the conversation orchestration engine. It composes an
intent router with a fixed set of task agents and threads conversation state
through exactly one routing decision and one agent step per inbound turn.

Routing is sticky: once an agent owns a conversation it keeps it across turns
until the flow ends or the user asks to stop. Within an agent, a step state
machine picks the handler for the turn, normalizing unknown step identifiers
to the agent's default step rather than failing.

The Engine wraps the graph with the persistence boundary: per-conversation
locking, state load, turn invocation, and state save.
*/
package workflow
