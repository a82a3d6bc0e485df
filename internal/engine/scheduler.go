package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"dashtutor/internal/learner"
)

// NextQuestion selects the next question for the user, or nil when the user
// is unknown or every eligible question is exhausted. Selection is
// deterministic given the profile and store state: candidates are ordered
// weakest first, ties broken by descending grade then skill id, and the
// store hands out the least-shown eligible question.
func (e *Engine) NextQuestion(ctx context.Context, userID string, now time.Time) (*learner.Question, error) {
	profile, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	if verr := profile.Verify(); verr != nil {
		return nil, &ErrIntegrity{UserID: userID, Err: verr}
	}

	strengths := e.strengths(profile, now)
	candidates := e.candidates(strengths)

	// An empty candidate set with locked skills left means the learner may
	// have mastered out their current grade. Unlock retries selection once.
	if len(candidates) == 0 && hasLocked(strengths) {
		unlocked, err := e.tryGradeUnlock(ctx, profile, strengths, now)
		if err != nil {
			return nil, err
		}
		if unlocked {
			strengths = e.strengths(profile, now)
			candidates = e.candidates(strengths)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	answered, err := e.store.AnsweredQuestionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, skillID := range candidates {
		q, err := e.store.FindUnansweredQuestion(ctx, []string{skillID}, answered, e.tuning.MaxTimesShown)
		if err != nil {
			return nil, err
		}
		if q != nil {
			e.log.Debug("question selected",
				zap.String("user_id", userID),
				zap.String("skill_id", skillID),
				zap.String("question_id", q.QuestionID),
				zap.Float64("strength", strengths[skillID]))
			return q, nil
		}
	}
	return nil, nil
}

// candidates returns skill ids needing practice whose prerequisites are all
// met, ordered ascending by strength, then descending by grade, then by id.
func (e *Engine) candidates(strengths map[string]float64) []string {
	var out []string
	for id, s := range strengths {
		if s < 0 || s >= e.tuning.RecallThreshold {
			continue
		}
		if !e.prereqsMet(id, strengths) {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := strengths[out[i]], strengths[out[j]]
		if si != sj {
			return si < sj
		}
		gi, _ := e.cache.Get(out[i])
		gj, _ := e.cache.Get(out[j])
		if gi.Grade != gj.Grade {
			return gi.Grade > gj.Grade
		}
		return out[i] < out[j]
	})
	return out
}

// prereqsMet reports whether every direct prerequisite of id is at or above
// the recall threshold. A locked prerequisite blocks the candidate.
func (e *Engine) prereqsMet(id string, strengths map[string]float64) bool {
	skill, ok := e.cache.Get(id)
	if !ok {
		return false
	}
	for _, p := range skill.Prerequisites {
		if strengths[p] < e.tuning.RecallThreshold {
			return false
		}
	}
	return true
}

func hasLocked(strengths map[string]float64) bool {
	for _, s := range strengths {
		if s < 0 {
			return true
		}
	}
	return false
}

// tryGradeUnlock opens the next grade when every skill at the learner's
// current grade is mastered. The current grade is the highest grade holding
// any non-locked state, so repeated unlocks work without ever touching the
// stored grade_level field. Returns whether anything was unlocked.
func (e *Engine) tryGradeUnlock(ctx context.Context, profile *learner.UserProfile, strengths map[string]float64, now time.Time) (bool, error) {
	current := -1
	for _, grade := range e.cache.Grades() {
		for _, id := range e.cache.ByGrade(grade) {
			if strengths[id] >= 0 && grade > current {
				current = grade
			}
		}
	}
	if current < 0 {
		return false, nil
	}

	for _, id := range e.cache.ByGrade(current) {
		if strengths[id] < e.tuning.MasteryThreshold {
			return false, nil
		}
	}

	next := current + 1
	var unlockIDs []string
	for _, id := range e.cache.ByGrade(next) {
		if strengths[id] < 0 {
			unlockIDs = append(unlockIDs, id)
		}
	}
	if len(unlockIDs) == 0 {
		return false, nil
	}

	updates := make(map[string]SkillStateUpdate, len(unlockIDs))
	for _, id := range unlockIDs {
		updates[id] = SkillStateUpdate{Strength: 0}
	}
	attempt := learner.QuestionAttempt{
		QuestionID: fmt.Sprintf(learner.GradeUnlockQuestionIDFmt, next),
		SkillIDs:   unlockIDs,
		IsCorrect:  true,
		Timestamp:  now,
	}
	if err := e.store.BulkUpdateSkillStates(ctx, profile.UserID, now, updates, attempt, e.tuning.HistoryCap); err != nil {
		return false, err
	}

	// Mirror the write into the request's snapshot so the retry pass sees
	// the unlocked states.
	for _, id := range unlockIDs {
		st := profile.SkillStates[id]
		st.MemoryStrength = 0
		st.LastUpdated = now
		profile.SkillStates[id] = st
	}
	profile.QuestionHistory = append(profile.QuestionHistory, attempt)

	e.log.Info("grade unlocked",
		zap.String("user_id", profile.UserID),
		zap.Int("grade", next),
		zap.Int("skills", len(unlockIDs)))
	return true, nil
}
