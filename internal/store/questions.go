package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dashtutor/internal/learner"
)

// FindUnansweredQuestion returns the least-shown question testing any of
// skillIDs that the learner has not answered and that is still under the
// exposure cap. The times_shown increment happens inside the same
// findAndModify, so two concurrent callers can never receive the same
// question at the same counter value.
func (h *Handler) FindUnansweredQuestion(ctx context.Context, skillIDs []string,
	answeredIDs []string, maxTimesShown int) (*learner.Question, error) {
	opCtx, cancel := h.opContext(ctx)
	defer cancel()

	filter := bson.M{
		"skill_ids":   bson.M{"$in": skillIDs},
		"times_shown": bson.M{"$lt": maxTimesShown},
	}
	if len(answeredIDs) > 0 {
		filter["question_id"] = bson.M{"$nin": answeredIDs}
	}

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "times_shown", Value: 1}, {Key: "question_id", Value: 1}}).
		SetReturnDocument(options.After)

	var q learner.Question
	err := h.questions.FindOneAndUpdate(opCtx,
		filter,
		bson.M{"$inc": bson.M{"times_shown": 1}},
		opts).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find_unanswered_question", err)
	}
	return &q, nil
}

// InsertQuestions loads question documents, used by the seed command.
// Existing question ids are left untouched.
func (h *Handler) InsertQuestions(ctx context.Context, questions []learner.Question) (int, error) {
	inserted := 0
	for _, q := range questions {
		opCtx, cancel := h.opContext(ctx)
		res, err := h.questions.UpdateOne(opCtx,
			bson.M{"question_id": q.QuestionID},
			bson.M{"$setOnInsert": q},
			options.Update().SetUpsert(true))
		cancel()
		if err != nil {
			return inserted, storeErr("insert_questions", err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}
