package engine

import (
	"context"
	"strings"
	"time"

	"dashtutor/internal/learner"
	"dashtutor/internal/memory"
)

// SkillStat is one skill's entry in the stats report.
type SkillStat struct {
	Strength        float64 `json:"strength"`
	Grade           int     `json:"grade"`
	NeedsPractice   bool    `json:"needs_practice"`
	PredictedRecall float64 `json:"predicted_recall"`
	Locked          bool    `json:"locked"`
}

// StatsReport summarizes a learner's progress at a point in time.
type StatsReport struct {
	TotalQuestions        int                  `json:"total_questions"`
	Correct               int                  `json:"correct"`
	Accuracy              float64              `json:"accuracy"`
	SkillsMastered        int                  `json:"skills_mastered"`
	SkillsNeedingPractice int                  `json:"skills_needing_practice"`
	PerSkill              map[string]SkillStat `json:"per_skill"`
}

// Stats computes the learner's progress report. Synthetic lifecycle entries
// (cold start, grade unlocks) are excluded from the question totals.
func (e *Engine) Stats(ctx context.Context, userID string, now time.Time) (*StatsReport, error) {
	profile, err := e.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &StatsReport{
		PerSkill: make(map[string]SkillStat, e.cache.Len()),
	}

	for _, a := range profile.QuestionHistory {
		if syntheticAttempt(a.QuestionID) {
			continue
		}
		report.TotalQuestions++
		if a.IsCorrect {
			report.Correct++
		}
	}
	if report.TotalQuestions > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.TotalQuestions)
	}

	for _, id := range e.cache.IDs() {
		skill, _ := e.cache.Get(id)
		s := e.decayedStrength(profile, id, now)
		stat := SkillStat{
			Strength: s,
			Grade:    skill.Grade,
			Locked:   s < 0,
		}
		if s >= 0 {
			stat.PredictedRecall = memory.PredictRecall(s, e.tuning.Memory)
			stat.NeedsPractice = s < e.tuning.RecallThreshold
			if s >= e.tuning.MasteryThreshold {
				report.SkillsMastered++
			}
			if stat.NeedsPractice {
				report.SkillsNeedingPractice++
			}
		}
		report.PerSkill[id] = stat
	}
	return report, nil
}

func syntheticAttempt(questionID string) bool {
	return questionID == learner.ColdStartQuestionID ||
		strings.HasPrefix(questionID, "grade_unlock_")
}
