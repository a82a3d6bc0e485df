package engine

import (
	"context"
	"time"

	"dashtutor/internal/learner"
	"dashtutor/internal/skillcache"
)

// SkillStateUpdate is one skill's pending write within a bulk update.
type SkillStateUpdate struct {
	// Strength is the new memory strength.
	Strength float64
	// Practiced records the write as practice: last_practice_time is set to
	// the update time and practice_count is incremented. The grade-unlock
	// transition leaves it false.
	Practiced bool
	// Correct additionally increments correct_count. Only directly tested
	// skills set it.
	Correct bool
}

// Store is the persistence contract the engine requires of the document
// store. Every call is a single logical step: BulkUpdateSkillStates and the
// FindUnansweredQuestion counter increment must each commit atomically, or
// the engine's at-most-once question delivery breaks.
type Store interface {
	// GetUser returns the profile snapshot, or nil when the user is unknown.
	GetUser(ctx context.Context, userID string) (*learner.UserProfile, error)

	// CreateUser inserts a fully initialized profile document.
	CreateUser(ctx context.Context, profile *learner.UserProfile) error

	// BulkUpdateSkillStates applies the per-skill updates and appends the
	// attempt to question_history, keeping the newest historyCap entries.
	// One atomic operation.
	BulkUpdateSkillStates(ctx context.Context, userID string, now time.Time,
		updates map[string]SkillStateUpdate, attempt learner.QuestionAttempt, historyCap int) error

	// FindUnansweredQuestion returns one question testing any of skillIDs,
	// excluding answeredIDs and questions shown maxTimesShown or more times.
	// It picks the eligible question with the smallest times_shown,
	// atomically increments that counter, and returns nil when none match.
	FindUnansweredQuestion(ctx context.Context, skillIDs []string,
		answeredIDs []string, maxTimesShown int) (*learner.Question, error)

	// AnsweredQuestionIDs projects the question ids out of the user's
	// history.
	AnsweredQuestionIDs(ctx context.Context, userID string) ([]string, error)

	// ListSkillDocuments streams every curriculum document for the cache
	// build.
	ListSkillDocuments(ctx context.Context) ([]skillcache.SkillDocument, error)
}
