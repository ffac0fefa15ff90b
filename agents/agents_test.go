package agents

import (
	"context"
	"fmt"

	"github.com/harvest7777/personal-brand-intern-project/review"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

// fakeFacts is an in-memory FactStore with scripted search results.
type fakeFacts struct {
	searchResults []types.KnowledgeFact
	searchErr     error
	inserted      []types.KnowledgeFact
	deletedOwner  string
}

func (f *fakeFacts) Search(ctx context.Context, ownerID, query string) ([]types.KnowledgeFact, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeFacts) Insert(ctx context.Context, facts []types.KnowledgeFact) error {
	f.inserted = append(f.inserted, facts...)
	return nil
}

func (f *fakeFacts) DeleteOwner(ctx context.Context, ownerID string) (int, error) {
	f.deletedOwner = ownerID
	return len(f.inserted), nil
}

// fakeQuestions records LogIfNew calls and reports duplicates on demand.
type fakeQuestions struct {
	duplicate bool
	logged    []types.UnansweredQuestion
}

func (f *fakeQuestions) LogIfNew(ctx context.Context, q types.UnansweredQuestion) (bool, error) {
	if f.duplicate {
		return false, nil
	}
	f.logged = append(f.logged, q)
	return true, nil
}

// fakeReview is an in-memory ReviewQueue.
type fakeReview struct {
	pending  []types.UnansweredQuestion
	answered []review.AnsweredQuestion
	enqueued []types.UnansweredQuestion
	deleted  string
}

func (f *fakeReview) Enqueue(ctx context.Context, q types.UnansweredQuestion) error {
	f.enqueued = append(f.enqueued, q)
	f.pending = append(f.pending, q)
	return nil
}

func (f *fakeReview) NextPending(ctx context.Context, ownerID string) (types.UnansweredQuestion, bool, error) {
	for _, q := range f.pending {
		if q.OwnerID == ownerID {
			return q, true, nil
		}
	}
	return types.UnansweredQuestion{}, false, nil
}

func (f *fakeReview) CountPending(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	for _, q := range f.pending {
		if q.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeReview) MarkAnswered(ctx context.Context, questionID, answer string) (review.AnsweredQuestion, error) {
	for i, q := range f.pending {
		if q.ID == questionID {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			resolved := review.AnsweredQuestion{Question: q, Answer: answer}
			f.answered = append(f.answered, resolved)
			return resolved, nil
		}
	}
	return review.AnsweredQuestion{}, fmt.Errorf("question %s not found", questionID)
}

func (f *fakeReview) DeleteOwner(ctx context.Context, ownerID string) error {
	f.deleted = ownerID
	var kept []types.UnansweredQuestion
	for _, q := range f.pending {
		if q.OwnerID != ownerID {
			kept = append(kept, q)
		}
	}
	f.pending = kept
	return nil
}

// fakeGenerator counts invocations; the no-facts path must keep it at zero.
type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, facts []types.KnowledgeFact, query string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeExtractor returns a fixed statement list.
type fakeExtractor struct {
	statements []string
	err        error
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.statements, nil
}

type fixture struct {
	facts     *fakeFacts
	questions *fakeQuestions
	review    *fakeReview
	generator *fakeGenerator
	extractor *fakeExtractor
	deps      Dependencies
}

func newFixture() *fixture {
	f := &fixture{
		facts:     &fakeFacts{},
		questions: &fakeQuestions{},
		review:    &fakeReview{},
		generator: &fakeGenerator{answer: "generated answer"},
		extractor: &fakeExtractor{},
	}
	f.deps = Dependencies{
		Facts:     f.facts,
		Questions: f.questions,
		Review:    f.review,
		Generator: f.generator,
		Extractor: f.extractor,
	}
	return f
}

// stateWith returns a conversation state whose last message is a human turn.
func stateWith(agent types.AgentName, step, humanText string) *types.ConversationState {
	state := types.NewConversationState("owner-1", "asker-1")
	state.ActiveAgent = agent
	state.ActiveStep = step
	return state.AppendHuman(humanText)
}
