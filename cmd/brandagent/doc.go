// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

// Command brandagent runs the personal brand agent service.
//
// Usage:
//
//	brandagent serve                       start the HTTP/WebSocket server
//	brandagent serve --config config.yaml  use a specific config file
//	brandagent chat                        interactive local chat session
//	brandagent migrate up                  apply database migrations
//	brandagent migrate status              show migration status
//	brandagent health                      probe a running server
//	brandagent version                     print build information
package main
