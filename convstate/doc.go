// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package convstate persists ConversationState across turns. A turn reads the
full state, mutates it, and writes it back, so two in-flight turns of the
same conversation would race as lost updates. The Locker serializes the
read-modify-persist cycle per conversation identity; distinct conversations
proceed concurrently.

An absent record is a normal outcome ("initialize a fresh state"), never an
error. A failed turn persists nothing: the previously saved state remains
authoritative.
*/
package convstate
