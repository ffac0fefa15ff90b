package types

import "time"

// FactSource identifies where a knowledge fact was ingested from.
type FactSource string

const (
	SourceResume   FactSource = "resume"
	SourceLinkedIn FactSource = "linkedin"
	SourceOwner    FactSource = "owner"
)

// KnowledgeFact is an immutable, embedded knowledge fragment scoped
// permanently to one owner. Facts are created by an ingestion flow and never
// mutated afterwards.
type KnowledgeFact struct {
	ID       string     `json:"id"`
	OwnerID  string     `json:"owner_id"`
	Text     string     `json:"text"`
	Source   FactSource `json:"source"`
	LoggedAt time.Time  `json:"logged_at"`
}

// UnansweredQuestion is a query that had no sufficiently close matching fact.
// It is logged at most once per near-duplicate window and queued for the
// owner to answer out of band.
type UnansweredQuestion struct {
	ID       string    `json:"id"`
	AskerID  string    `json:"asker_id"`
	OwnerID  string    `json:"owner_id"`
	Text     string    `json:"text"`
	LoggedAt time.Time `json:"logged_at"`
}
