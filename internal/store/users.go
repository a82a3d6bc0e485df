package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"dashtutor/internal/engine"
	"dashtutor/internal/learner"
)

// GetUser fetches a profile snapshot. Returns nil with no error when the
// user does not exist.
func (h *Handler) GetUser(ctx context.Context, userID string) (*learner.UserProfile, error) {
	opCtx, cancel := h.opContext(ctx)
	defer cancel()

	var profile learner.UserProfile
	err := h.users.FindOne(opCtx, bson.M{"user_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get_user", err)
	}
	unescapeSkillStates(&profile)
	return &profile, nil
}

// CreateUser inserts the fully initialized profile document. Skill-state
// keys are stored dot-escaped so later updates can address them.
func (h *Handler) CreateUser(ctx context.Context, profile *learner.UserProfile) error {
	opCtx, cancel := h.opContext(ctx)
	defer cancel()

	stored := *profile
	stored.SkillStates = escapedSkillStates(profile.SkillStates)
	if _, err := h.users.InsertOne(opCtx, &stored); err != nil {
		return storeErr("create_user", err)
	}
	return nil
}

// BulkUpdateSkillStates commits the post-answer (or grade-unlock) write:
// per-skill field sets, counter increments and the history append with its
// cap, all in one update document.
func (h *Handler) BulkUpdateSkillStates(ctx context.Context, userID string, now time.Time,
	updates map[string]engine.SkillStateUpdate, attempt learner.QuestionAttempt, historyCap int) error {
	opCtx, cancel := h.opContext(ctx)
	defer cancel()

	res, err := h.users.UpdateOne(opCtx,
		bson.M{"user_id": userID},
		buildSkillStateUpdate(now, updates, attempt, historyCap))
	if err != nil {
		return storeErr("bulk_update_skill_states", err)
	}
	if res.MatchedCount == 0 {
		return &engine.ErrNotFound{Resource: "user", ID: userID}
	}
	return nil
}

// AnsweredQuestionIDs projects the question ids out of the user's history.
func (h *Handler) AnsweredQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	opCtx, cancel := h.opContext(ctx)
	defer cancel()

	var doc struct {
		QuestionHistory []struct {
			QuestionID string `bson:"question_id"`
		} `bson:"question_history"`
	}
	err := h.users.FindOne(opCtx,
		bson.M{"user_id": userID},
		historyProjection()).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get_answered_question_ids", err)
	}

	ids := make([]string, 0, len(doc.QuestionHistory))
	for _, a := range doc.QuestionHistory {
		ids = append(ids, a.QuestionID)
	}
	return ids, nil
}
