package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dashtutor/internal/engine"
	"dashtutor/internal/learner"
)

// buildSkillStateUpdate assembles the single atomic update document for a
// bulk skill-state write. Strength, last_updated and (for practiced skills)
// last_practice_time are $set; practice and correct counters are $inc; the
// attempt is pushed onto question_history with a negative $slice keeping
// the newest historyCap entries. Skill ids are dot-escaped in the field
// paths to match the stored keys.
func buildSkillStateUpdate(now time.Time, updates map[string]engine.SkillStateUpdate,
	attempt learner.QuestionAttempt, historyCap int) bson.M {
	set := bson.M{"last_updated": now}
	inc := bson.M{}

	for skillID, u := range updates {
		prefix := "skill_states." + escapeSkillID(skillID) + "."
		set[prefix+"memory_strength"] = u.Strength
		set[prefix+"last_updated"] = now
		if u.Practiced {
			set[prefix+"last_practice_time"] = now
			inc[prefix+"practice_count"] = 1
		}
		if u.Correct {
			inc[prefix+"correct_count"] = 1
		}
	}

	update := bson.M{
		"$set": set,
		"$push": bson.M{
			"question_history": bson.M{
				"$each":  []learner.QuestionAttempt{attempt},
				"$slice": -historyCap,
			},
		},
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	return update
}

// historyProjection limits a user read to the question ids in history.
func historyProjection() *options.FindOneOptions {
	return options.FindOne().SetProjection(bson.M{
		"question_history.question_id": 1,
		"_id":                          0,
	})
}
