// Package engine implements the adaptive tutoring core: cold-start user
// creation, weakness-ranked question scheduling with grade gates, and the
// multi-skill update cascade recorded after every answer. The engine holds
// no per-user state between requests; the store owns it.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dashtutor/internal/config"
	"dashtutor/internal/learner"
	"dashtutor/internal/memory"
	"dashtutor/internal/skillcache"
)

// Engine wires the skill cache, the memory model constants and the store
// into the four public operations. Safe for concurrent use; the cache is
// read-only and all mutation goes through the store's atomic updates.
type Engine struct {
	cache  *skillcache.Cache
	store  Store
	tuning config.Tuning
	log    *zap.Logger
}

// New builds an engine over an already-constructed skill cache.
func New(cache *skillcache.Cache, store Store, tuning config.Tuning, log *zap.Logger) *Engine {
	return &Engine{
		cache:  cache,
		store:  store,
		tuning: tuning,
		log:    log,
	}
}

// EnsureUser returns the profile for userID, creating it with cold-start
// skill states on first sight. Idempotent: an existing profile is returned
// untouched regardless of the supplied age and grade token.
func (e *Engine) EnsureUser(ctx context.Context, userID string, age int, gradeToken string, now time.Time) (*learner.UserProfile, error) {
	if userID == "" {
		return nil, invalidInputf("empty user_id")
	}
	profile, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		if verr := profile.Verify(); verr != nil {
			return nil, &ErrIntegrity{UserID: userID, Err: verr}
		}
		return profile, nil
	}

	grade, err := learner.ParseGradeToken(gradeToken)
	if err != nil {
		return nil, &ErrInvalidInput{Reason: err.Error()}
	}

	profile = e.coldStartProfile(userID, age, grade, now)
	if err := e.store.CreateUser(ctx, profile); err != nil {
		return nil, err
	}
	e.log.Info("user created",
		zap.String("user_id", userID),
		zap.Int("grade", grade),
		zap.Int("skills", e.cache.Len()))
	return profile, nil
}

// coldStartProfile stratifies initial strengths by the learner's grade:
// below it skills are assumed mastered (0.9, still decayable), at it they
// are ready to learn (0.0), above it they are locked (-1).
func (e *Engine) coldStartProfile(userID string, age, grade int, now time.Time) *learner.UserProfile {
	states := make(map[string]learner.SkillState, e.cache.Len())
	for _, id := range e.cache.IDs() {
		skill, _ := e.cache.Get(id)
		strength := 0.0
		switch {
		case skill.Grade < grade:
			strength = e.tuning.ColdStartMastered
		case skill.Grade > grade:
			strength = learner.LockedStrength
		}
		states[id] = learner.SkillState{
			MemoryStrength: strength,
			LastUpdated:    now,
		}
	}
	return &learner.UserProfile{
		UserID:      userID,
		CreatedAt:   now,
		LastUpdated: now,
		Age:         age,
		GradeLevel:  learner.GradeToken(grade),
		SkillStates: states,
		QuestionHistory: []learner.QuestionAttempt{{
			QuestionID: learner.ColdStartQuestionID,
			IsCorrect:  true,
			Timestamp:  now,
		}},
	}
}

// loadProfile fetches and integrity-checks a profile, mapping absence to
// ErrNotFound.
func (e *Engine) loadProfile(ctx context.Context, userID string) (*learner.UserProfile, error) {
	profile, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &ErrNotFound{Resource: "user", ID: userID}
	}
	if verr := profile.Verify(); verr != nil {
		e.log.Error("profile failed integrity check",
			zap.String("user_id", userID),
			zap.Error(verr))
		return nil, &ErrIntegrity{UserID: userID, Err: verr}
	}
	return profile, nil
}

// decayedStrength computes a skill's current strength for the given
// profile. Skills missing from the profile default to ready-to-learn, and a
// skill missing from the cache passes its stored strength through undecayed.
func (e *Engine) decayedStrength(profile *learner.UserProfile, skillID string, now time.Time) float64 {
	state, ok := profile.SkillStates[skillID]
	if !ok {
		return 0
	}
	skill, ok := e.cache.Get(skillID)
	if !ok {
		return state.MemoryStrength
	}
	return memory.Decay(state.MemoryStrength, state.LastPracticeTime, skill.ForgettingRate, now)
}

// strengths computes decayed strengths for every skill in the cache.
func (e *Engine) strengths(profile *learner.UserProfile, now time.Time) map[string]float64 {
	out := make(map[string]float64, e.cache.Len())
	for _, id := range e.cache.IDs() {
		out[id] = e.decayedStrength(profile, id, now)
	}
	return out
}
