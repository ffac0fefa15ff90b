package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/harvest7777/personal-brand-intern-project/config"
	"github.com/harvest7777/personal-brand-intern-project/internal/database"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

// Question statuses.
const (
	StatusPending  = "pending"
	StatusAnswered = "answered"
)

// questionRow is the relational shape of a queued question.
type questionRow struct {
	ID         string `gorm:"primaryKey;size:36"`
	OwnerID    string `gorm:"size:128;index:idx_owner_status,priority:1"`
	AskerID    string `gorm:"size:128"`
	Text       string
	Status     string `gorm:"size:16;index:idx_owner_status,priority:2"`
	Answer     string
	LoggedAt   time.Time
	AnsweredAt *time.Time
}

func (questionRow) TableName() string { return "unanswered_questions" }

// AnsweredQuestion pairs a resolved question with the owner's answer.
type AnsweredQuestion struct {
	Question types.UnansweredQuestion
	Answer   string
}

// Store is the review queue backed by a relational database.
type Store struct {
	db     *gorm.DB
	pool   *database.Pool
	logger *zap.Logger
}

// Open connects to the database named by cfg and applies the pool settings.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool, err := database.NewPool(db, cfg, 0, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("review store opened", zap.String("driver", cfg.Driver))

	store := NewStoreWithDB(db, logger)
	store.pool = pool
	return store, nil
}

// NewStoreWithDB wraps an existing gorm handle. Used by tests and the demo REPL.
func NewStoreWithDB(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     db,
		logger: logger.With(zap.String("component", "review_store")),
	}
}

// AutoMigrate creates the queue table. Production deployments run the
// versioned migrations instead; this covers sqlite demo and test setups.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&questionRow{})
}

// Enqueue records q as pending. Re-enqueueing an existing ID is a no-op so
// callers do not need to coordinate with the duplicate window.
func (s *Store) Enqueue(ctx context.Context, q types.UnansweredQuestion) error {
	row := questionRow{
		ID:       q.ID,
		OwnerID:  q.OwnerID,
		AskerID:  q.AskerID,
		Text:     q.Text,
		Status:   StatusPending,
		LoggedAt: q.LoggedAt,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return types.NewError(types.ErrPersistenceFailed, "enqueue review question").
			WithRetryable(true).
			WithCause(err)
	}
	s.logger.Debug("question queued for review",
		zap.String("question_id", q.ID),
		zap.String("owner_id", q.OwnerID),
	)
	return nil
}

// ListPending returns up to limit pending questions for ownerID, oldest first.
// A non-positive limit returns all of them.
func (s *Store) ListPending(ctx context.Context, ownerID string, limit int) ([]types.UnansweredQuestion, error) {
	query := s.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, StatusPending).
		Order("logged_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []questionRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, types.NewError(types.ErrPersistenceFailed, "list pending questions").
			WithRetryable(true).
			WithCause(err)
	}

	questions := make([]types.UnansweredQuestion, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, row.toQuestion())
	}
	return questions, nil
}

// NextPending returns the oldest pending question for ownerID. The second
// return reports whether one existed.
func (s *Store) NextPending(ctx context.Context, ownerID string) (types.UnansweredQuestion, bool, error) {
	questions, err := s.ListPending(ctx, ownerID, 1)
	if err != nil {
		return types.UnansweredQuestion{}, false, err
	}
	if len(questions) == 0 {
		return types.UnansweredQuestion{}, false, nil
	}
	return questions[0], true, nil
}

// CountPending reports how many questions await the owner.
func (s *Store) CountPending(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&questionRow{}).
		Where("owner_id = ? AND status = ?", ownerID, StatusPending).
		Count(&count).Error
	if err != nil {
		return 0, types.NewError(types.ErrPersistenceFailed, "count pending questions").
			WithRetryable(true).
			WithCause(err)
	}
	return count, nil
}

// MarkAnswered records the owner's answer and returns the resolved pair. It
// runs in a transaction so a concurrent answer to the same question loses
// cleanly rather than clobbering.
func (s *Store) MarkAnswered(ctx context.Context, questionID, answer string) (AnsweredQuestion, error) {
	var resolved AnsweredQuestion

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row questionRow
		if err := tx.Where("id = ?", questionID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewError(types.ErrInvalidRequest, "question not found").
					WithCause(err)
			}
			return err
		}
		if row.Status == StatusAnswered {
			return types.NewError(types.ErrInvalidRequest, "question already answered")
		}

		now := time.Now().UTC()
		row.Status = StatusAnswered
		row.Answer = answer
		row.AnsweredAt = &now
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		resolved = AnsweredQuestion{Question: row.toQuestion(), Answer: answer}
		return nil
	})
	if err != nil {
		var typed *types.Error
		if errors.As(err, &typed) {
			return AnsweredQuestion{}, err
		}
		return AnsweredQuestion{}, types.NewError(types.ErrPersistenceFailed, "mark question answered").
			WithRetryable(true).
			WithCause(err)
	}

	s.logger.Info("review question answered",
		zap.String("question_id", questionID),
	)
	return resolved, nil
}

// DeleteOwner removes all queue entries for ownerID, answered or not.
func (s *Store) DeleteOwner(ctx context.Context, ownerID string) error {
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&questionRow{}).Error
	if err != nil {
		return types.NewError(types.ErrPersistenceFailed, "delete owner questions").
			WithRetryable(true).
			WithCause(err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		return s.pool.Close()
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r questionRow) toQuestion() types.UnansweredQuestion {
	return types.UnansweredQuestion{
		ID:       r.ID,
		AskerID:  r.AskerID,
		OwnerID:  r.OwnerID,
		Text:     r.Text,
		LoggedAt: r.LoggedAt,
	}
}
