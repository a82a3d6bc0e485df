package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"dashtutor/internal/engine"
	"dashtutor/internal/learner"
)

func TestBuildSkillStateUpdate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updates := map[string]engine.SkillStateUpdate{
		"math_3_1.1.1.1": {Strength: 0.65, Practiced: true, Correct: true},
		"math_3_2.1.1.1": {Strength: 0.525, Practiced: true},
	}
	attempt := learner.QuestionAttempt{
		QuestionID: "q1",
		SkillIDs:   []string{"math_3_1.1.1.1"},
		IsCorrect:  true,
		Timestamp:  now,
	}

	doc := buildSkillStateUpdate(now, updates, attempt, 1000)

	set := doc["$set"].(bson.M)
	assert.Equal(t, now, set["last_updated"])
	assert.Equal(t, 0.65, set["skill_states.math_3_1%2E1%2E1%2E1.memory_strength"])
	assert.Equal(t, now, set["skill_states.math_3_1%2E1%2E1%2E1.last_practice_time"])
	assert.Equal(t, 0.525, set["skill_states.math_3_2%2E1%2E1%2E1.memory_strength"])

	inc := doc["$inc"].(bson.M)
	assert.Equal(t, 1, inc["skill_states.math_3_1%2E1%2E1%2E1.practice_count"])
	assert.Equal(t, 1, inc["skill_states.math_3_1%2E1%2E1%2E1.correct_count"])
	assert.Equal(t, 1, inc["skill_states.math_3_2%2E1%2E1%2E1.practice_count"])
	assert.NotContains(t, inc, "skill_states.math_3_2%2E1%2E1%2E1.correct_count")

	push := doc["$push"].(bson.M)["question_history"].(bson.M)
	require.Len(t, push["$each"], 1)
	assert.Equal(t, -1000, push["$slice"])
}

// Update-operator keys split on every dot server-side, so any dot beyond the
// two genuine path separators would land the write on a phantom nested
// document instead of the stored skill state.
func TestBuildSkillStateUpdatePathsHaveNoStrayDots(t *testing.T) {
	now := time.Now()
	updates := map[string]engine.SkillStateUpdate{
		"math_3_1.1.1.1":         {Strength: 0.65, Practiced: true, Correct: true},
		"life_science_5_2.1.4.3": {Strength: 0.2, Practiced: true},
	}
	attempt := learner.QuestionAttempt{QuestionID: "q1", Timestamp: now}

	doc := buildSkillStateUpdate(now, updates, attempt, 1000)

	for _, section := range []string{"$set", "$inc"} {
		for key := range doc[section].(bson.M) {
			if key == "last_updated" {
				continue
			}
			require.True(t, strings.HasPrefix(key, "skill_states."), "key %q", key)
			assert.Equal(t, 2, strings.Count(key, "."), "key %q addresses a phantom path", key)
		}
	}
}

func TestSkillIDEscapeRoundTrip(t *testing.T) {
	ids := []string{
		"math_3_1.1.1.1",
		"life_science_5_2.1.4.3",
		"math_3_1.1",
		"odd%id_3_1.2.3.4",
	}
	for _, id := range ids {
		escaped := escapeSkillID(id)
		assert.NotContains(t, escaped, ".", "escaped id %q still carries a dot", escaped)
		assert.Equal(t, id, unescapeSkillID(escaped))
	}
}

func TestBuildSkillStateUpdateUnlockShape(t *testing.T) {
	now := time.Now()
	updates := map[string]engine.SkillStateUpdate{
		"math_4_1.1.1.1": {Strength: 0},
	}
	attempt := learner.QuestionAttempt{QuestionID: "grade_unlock_4", IsCorrect: true, Timestamp: now}

	doc := buildSkillStateUpdate(now, updates, attempt, 1000)

	set := doc["$set"].(bson.M)
	assert.Equal(t, 0.0, set["skill_states.math_4_1%2E1%2E1%2E1.memory_strength"])
	// An unlock is not practice: no timestamp, no counter bump.
	assert.NotContains(t, set, "skill_states.math_4_1%2E1%2E1%2E1.last_practice_time")
	assert.NotContains(t, doc, "$inc")
}
