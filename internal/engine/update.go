package engine

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"dashtutor/internal/learner"
	"dashtutor/internal/memory"
	"dashtutor/internal/skillcache"
)

// RecordAttempt applies an answered question to the learner's skill states:
// the tested skills get the full memory-model update, their prerequisite
// closure gets a soft boost on a correct answer, and topical neighbours of
// each tested skill move by the breadcrumb cascade rates. All writes land
// in one atomic store update; the returned ids are the skills whose
// strength was modified.
func (e *Engine) RecordAttempt(ctx context.Context, userID, questionID string, skillIDs []string, isCorrect bool, responseSeconds float64, now time.Time) ([]string, error) {
	if userID == "" {
		return nil, invalidInputf("empty user_id")
	}
	if questionID == "" {
		return nil, invalidInputf("empty question_id")
	}
	if len(skillIDs) == 0 {
		return nil, invalidInputf("attempt tests no skills")
	}
	if responseSeconds < 0 {
		return nil, invalidInputf("negative response time %v", responseSeconds)
	}
	for _, id := range skillIDs {
		if _, ok := e.cache.Get(id); !ok {
			return nil, invalidInputf("unknown skill_id %q", id)
		}
	}

	profile, err := e.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]SkillStateUpdate)
	direct := make(map[string]bool, len(skillIDs))

	// Phase 1: directly tested skills. Locked skills never move outside the
	// unlock transition, so a locked direct skill is skipped entirely.
	for _, id := range skillIDs {
		direct[id] = true
		m := e.decayedStrength(profile, id, now)
		if m < 0 {
			continue
		}
		updates[id] = SkillStateUpdate{
			Strength:  memory.Update(m, isCorrect, responseSeconds, e.tuning.Memory),
			Practiced: true,
			Correct:   isCorrect,
		}
	}

	// Phase 2: prerequisite closure. A correct answer credits the chain; a
	// wrong one leaves prerequisites untouched.
	if isCorrect {
		for _, id := range skillIDs {
			for _, p := range e.cache.TransitivePrerequisites(id) {
				if _, done := updates[p]; done {
					continue
				}
				m := e.decayedStrength(profile, p, now)
				if m < 0 {
					continue
				}
				updates[p] = SkillStateUpdate{
					Strength:  memory.Boost(m, e.tuning.PrereqBoost),
					Practiced: true,
				}
			}
		}
	}

	// Phase 3: topical neighbours of each tested skill, by breadcrumb
	// proximity. Earlier phases win; locked neighbours are excluded.
	for _, id := range skillIDs {
		primary, _ := e.cache.Get(id)
		if len(primary.Breadcrumb) < skillcache.FullDepth {
			continue
		}
		for _, otherID := range e.cache.IDs() {
			if otherID == id || direct[otherID] {
				continue
			}
			if _, done := updates[otherID]; done {
				continue
			}
			other, _ := e.cache.Get(otherID)
			rate := e.cascadeRate(primary, other)
			if rate == 0 {
				continue
			}
			m := e.decayedStrength(profile, otherID, now)
			if m < 0 {
				continue
			}
			next := memory.Dampen(m, rate)
			if isCorrect {
				next = memory.Boost(m, rate)
			}
			updates[otherID] = SkillStateUpdate{
				Strength:  next,
				Practiced: true,
			}
		}
	}

	attempt := learner.QuestionAttempt{
		QuestionID:         questionID,
		SkillIDs:           skillIDs,
		IsCorrect:          isCorrect,
		ResponseTimeSecs:   responseSeconds,
		TimePenaltyApplied: memory.SlowResponse(responseSeconds, e.tuning.Memory),
		Timestamp:          now,
	}
	if err := e.store.BulkUpdateSkillStates(ctx, userID, now, updates, attempt, e.tuning.HistoryCap); err != nil {
		return nil, err
	}

	affected := make([]string, 0, len(updates))
	for id := range updates {
		affected = append(affected, id)
	}
	sort.Strings(affected)

	e.log.Debug("attempt recorded",
		zap.String("user_id", userID),
		zap.String("question_id", questionID),
		zap.Bool("correct", isCorrect),
		zap.Int("skills_updated", len(affected)))
	return affected, nil
}

// cascadeRate classifies how strongly an answer on primary should echo into
// other. Zero means no topical relation.
func (e *Engine) cascadeRate(primary, other skillcache.Skill) float64 {
	if other.Subject != primary.Subject {
		return 0
	}
	if len(other.Breadcrumb) < skillcache.FullDepth {
		return 0
	}
	ob, pb := other.Breadcrumb, primary.Breadcrumb
	sameTopic := ob.Topic() == pb.Topic()
	sameConcept := sameTopic && ob.Concept() == pb.Concept()
	sameSubconcept := sameConcept && ob.Subconcept() == pb.Subconcept()

	switch {
	case other.Grade == primary.Grade && sameSubconcept:
		return e.tuning.CascadeSameConcept
	case other.Grade == primary.Grade && sameConcept:
		return e.tuning.CascadeSameTopic
	case other.Grade == primary.Grade && sameTopic:
		return e.tuning.CascadeSameGrade
	case other.Grade < primary.Grade && sameSubconcept:
		return e.tuning.CascadeLowerGrade
	default:
		return 0
	}
}
