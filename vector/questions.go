package vector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/llm/embedding"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

// QuestionLogConfig holds the deduplication policy for failed questions.
type QuestionLogConfig struct {
	// DuplicateDistance is the inclusive dedup cutoff: a prior question at
	// this distance or closer counts as a duplicate and suppresses logging.
	DuplicateDistance float64
}

// QuestionLog records questions the knowledge base could not answer, scoped
// to the owner whose base was queried, with near-duplicate suppression so
// repeated phrasings of the same question are logged once.
type QuestionLog struct {
	store    Store
	embedder embedding.Embedder
	cfg      QuestionLogConfig
	logger   *zap.Logger
}

// NewQuestionLog creates a QuestionLog applying cfg's dedup policy.
func NewQuestionLog(store Store, embedder embedding.Embedder, cfg QuestionLogConfig, logger *zap.Logger) *QuestionLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionLog{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "question_log")),
	}
}

// DuplicateExists reports whether a near-duplicate of text is already logged
// for ownerID. The comparison is inclusive: a match at exactly the cutoff is
// a duplicate.
func (q *QuestionLog) DuplicateExists(ctx context.Context, ownerID, text string) (bool, error) {
	queryEmbedding, err := q.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return false, types.NewError(types.ErrRetrievalFailed, "embed question").WithCause(err)
	}

	results, err := q.store.Search(ctx, queryEmbedding, 1, map[string]string{
		metaOwnerID: ownerID,
	})
	if err != nil {
		return false, types.NewError(types.ErrRetrievalFailed, "duplicate search").WithCause(err)
	}
	if len(results) == 0 {
		return false, nil
	}
	return results[0].Distance <= q.cfg.DuplicateDistance, nil
}

// Log records question unconditionally. Callers wanting dedup semantics use
// LogIfNew.
func (q *QuestionLog) Log(ctx context.Context, question types.UnansweredQuestion) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if question.LoggedAt.IsZero() {
		question.LoggedAt = time.Now()
	}

	queryEmbedding, err := q.embedder.EmbedQuery(ctx, question.Text)
	if err != nil {
		return types.NewError(types.ErrRetrievalFailed, "embed question").WithCause(err)
	}

	doc := Document{
		ID:        question.ID,
		Text:      question.Text,
		Embedding: queryEmbedding,
		Metadata: map[string]string{
			metaOwnerID:  question.OwnerID,
			metaAskerID:  question.AskerID,
			metaLoggedAt: question.LoggedAt.Format(time.RFC3339),
		},
	}
	if err := q.store.Add(ctx, []Document{doc}); err != nil {
		return types.NewError(types.ErrRetrievalFailed, "log question").WithCause(err)
	}

	q.logger.Info("unanswered question logged",
		zap.String("owner_id", question.OwnerID),
		zap.String("question_id", question.ID))
	return nil
}

// LogIfNew logs question unless a near-duplicate already exists. It reports
// whether a new record was created.
func (q *QuestionLog) LogIfNew(ctx context.Context, question types.UnansweredQuestion) (bool, error) {
	exists, err := q.DuplicateExists(ctx, question.OwnerID, question.Text)
	if err != nil {
		return false, err
	}
	if exists {
		q.logger.Debug("duplicate question suppressed",
			zap.String("owner_id", question.OwnerID))
		return false, nil
	}
	if err := q.Log(ctx, question); err != nil {
		return false, err
	}
	return true, nil
}
