// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package server is the chat transport. It exposes the orchestration engine
over a WebSocket endpoint and a REST endpoint, plus health and Prometheus
metrics routes.

Over WebSocket every inbound message is acknowledged with an explicit ack
frame before orchestration runs; the assistant's reply follows as a separate
message frame. Turns arriving without a conversation ID or text are logged
and dropped without a reply.
*/
package server
