// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package agents implements the task agents behind the intent router. Each
agent is a workflow.StepMachine built once at process start; multi-turn flows
persist their position through the conversation state's active step.

The question answerer is the core of the system: owner-scoped fact retrieval
with a hard relevance cutoff, duplicate-suppressed logging of unanswerable
questions, and generated answers only when supporting facts exist.
*/
package agents
