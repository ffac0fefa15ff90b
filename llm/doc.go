// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package llm provides the chat completion layer: a unified Provider
interface, an OpenAI-compatible HTTP implementation, the grounded answer
generator, and the zero-shot intent classifier used by the router.

The generator and classifier are the only two call sites in the module;
neither retries on failure. Upstream errors map to structured *types.Error
values so the orchestration boundary can decide retryability.
*/
package llm
