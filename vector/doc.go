// Copyright (c) Brand Agent Authors.
// Licensed under the MIT License.

/*
Package vector provides similarity search over embedded text plus the two
owner-scoped policies built on it: FactStore (knowledge retrieval with a hard
relevance cutoff) and QuestionLog (near-duplicate suppression for questions
the knowledge base could not answer).

Distances are semantic-similarity metrics where lower means more similar.
The two cutoffs are intentionally asymmetric: facts past MaxFactDistance are
discarded with a strict comparison (a fact at exactly the cutoff is kept),
while a prior question at exactly DuplicateDistance already counts as a
duplicate. Both boundaries mirror the deployed policy and must not be
"fixed".
*/
package vector
