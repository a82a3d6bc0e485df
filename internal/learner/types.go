// Package learner defines the per-student data model: the profile document,
// per-skill practice state, question attempts and the question shape the
// scheduler hands out. The store owns the authoritative copies; the engine
// works against snapshots of these types for the duration of one request.
package learner

import (
	"fmt"
	"time"
)

// LockedStrength marks a skill above the learner's unlocked grade.
// A locked skill is never decayed and only the grade-unlock transition
// may change it (to 0.0).
const LockedStrength = -1.0

// ColdStartMastered is the strength assigned at creation to skills below the
// learner's grade. A never-practiced skill can only hold a cold-start value:
// 0.0, ColdStartMastered or LockedStrength.
const ColdStartMastered = 0.9

// Synthetic question ids recorded in history for lifecycle transitions.
const (
	ColdStartQuestionID      = "cold_start_init"
	GradeUnlockQuestionIDFmt = "grade_unlock_%d"
)

// SkillState is the mutable per-skill practice record for one learner.
type SkillState struct {
	MemoryStrength   float64    `bson:"memory_strength" json:"memory_strength"`
	LastPracticeTime *time.Time `bson:"last_practice_time" json:"last_practice_time"`
	PracticeCount    int        `bson:"practice_count" json:"practice_count"`
	CorrectCount     int        `bson:"correct_count" json:"correct_count"`
	LastUpdated      time.Time  `bson:"last_updated" json:"last_updated"`
}

// Locked reports whether the skill is gated above the learner's grade.
func (s SkillState) Locked() bool {
	return s.MemoryStrength < 0
}

// QuestionAttempt is one entry in the learner's bounded history.
type QuestionAttempt struct {
	QuestionID         string    `bson:"question_id" json:"question_id"`
	SkillIDs           []string  `bson:"skill_ids" json:"skill_ids"`
	IsCorrect          bool      `bson:"is_correct" json:"is_correct"`
	ResponseTimeSecs   float64   `bson:"response_time_seconds" json:"response_time_seconds"`
	TimePenaltyApplied bool      `bson:"time_penalty_applied" json:"time_penalty_applied"`
	Timestamp          time.Time `bson:"timestamp" json:"timestamp"`
}

// UserProfile is the per-learner document held in the users collection.
type UserProfile struct {
	UserID          string                `bson:"user_id" json:"user_id"`
	CreatedAt       time.Time             `bson:"created_at" json:"created_at"`
	LastUpdated     time.Time             `bson:"last_updated" json:"last_updated"`
	Age             int                   `bson:"age,omitempty" json:"age,omitempty"`
	GradeLevel      string                `bson:"grade_level" json:"grade_level"`
	SkillStates     map[string]SkillState `bson:"skill_states" json:"skill_states"`
	QuestionHistory []QuestionAttempt     `bson:"question_history" json:"question_history"`
}

// AnsweredQuestionIDs returns the set of question ids present in history.
func (p *UserProfile) AnsweredQuestionIDs() map[string]bool {
	ids := make(map[string]bool, len(p.QuestionHistory))
	for _, a := range p.QuestionHistory {
		ids[a.QuestionID] = true
	}
	return ids
}

// Verify checks the profile against the per-skill invariants. A violation
// means the stored document is corrupt and must be repaired out of band.
func (p *UserProfile) Verify() error {
	for id, st := range p.SkillStates {
		if st.CorrectCount > st.PracticeCount {
			return fmt.Errorf("skill %q: correct_count %d exceeds practice_count %d",
				id, st.CorrectCount, st.PracticeCount)
		}
		if st.CorrectCount < 0 || st.PracticeCount < 0 {
			return fmt.Errorf("skill %q: negative counters (%d correct, %d practiced)",
				id, st.CorrectCount, st.PracticeCount)
		}
		if st.MemoryStrength != LockedStrength && (st.MemoryStrength < 0 || st.MemoryStrength > 1) {
			return fmt.Errorf("skill %q: memory_strength %v outside {-1} ∪ [0, 1]",
				id, st.MemoryStrength)
		}
		if st.LastPracticeTime == nil {
			if st.PracticeCount != 0 {
				return fmt.Errorf("skill %q: practice_count %d with no last_practice_time",
					id, st.PracticeCount)
			}
			switch st.MemoryStrength {
			case 0, ColdStartMastered, LockedStrength:
			default:
				return fmt.Errorf("skill %q: never practiced with non-cold-start strength %v",
					id, st.MemoryStrength)
			}
		}
	}
	return nil
}

// Question is the scheduler's view of a question document. The payload is
// opaque to the engine; only SkillIDs and TimesShown drive selection.
type Question struct {
	QuestionID     string                 `bson:"question_id" json:"question_id"`
	SkillIDs       []string               `bson:"skill_ids" json:"skill_ids"`
	TimesShown     int                    `bson:"times_shown" json:"times_shown"`
	AvgCorrectness float64                `bson:"avg_correctness,omitempty" json:"avg_correctness,omitempty"`
	Payload        map[string]interface{} `bson:"payload,omitempty" json:"payload,omitempty"`
}
