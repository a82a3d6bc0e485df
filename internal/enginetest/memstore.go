// Package enginetest provides an in-memory engine.Store with the same
// atomicity guarantees as the MongoDB adapter, for use in package tests.
package enginetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"dashtutor/internal/engine"
	"dashtutor/internal/learner"
	"dashtutor/internal/skillcache"
)

// MemStore is a mutex-guarded engine.Store. Each operation commits as one
// step, mirroring the document store's single-update semantics.
type MemStore struct {
	mu        sync.Mutex
	users     map[string]*learner.UserProfile
	questions []*learner.Question
	skillDocs []skillcache.SkillDocument
}

var _ engine.Store = (*MemStore)(nil)

// NewMemStore builds a store preloaded with curriculum documents and
// questions.
func NewMemStore(docs []skillcache.SkillDocument, questions []learner.Question) *MemStore {
	s := &MemStore{
		users:     make(map[string]*learner.UserProfile),
		skillDocs: docs,
	}
	for i := range questions {
		q := questions[i]
		s.questions = append(s.questions, &q)
	}
	return s
}

func (s *MemStore) GetUser(_ context.Context, userID string) (*learner.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return cloneProfile(p), nil
}

func (s *MemStore) CreateUser(_ context.Context, profile *learner.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[profile.UserID] = cloneProfile(profile)
	return nil
}

func (s *MemStore) BulkUpdateSkillStates(_ context.Context, userID string, now time.Time,
	updates map[string]engine.SkillStateUpdate, attempt learner.QuestionAttempt, historyCap int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.users[userID]
	if !ok {
		return &engine.ErrNotFound{Resource: "user", ID: userID}
	}
	for skillID, u := range updates {
		st := p.SkillStates[skillID]
		st.MemoryStrength = u.Strength
		st.LastUpdated = now
		if u.Practiced {
			t := now
			st.LastPracticeTime = &t
			st.PracticeCount++
		}
		if u.Correct {
			st.CorrectCount++
		}
		p.SkillStates[skillID] = st
	}
	p.LastUpdated = now
	p.QuestionHistory = append(p.QuestionHistory, attempt)
	if len(p.QuestionHistory) > historyCap {
		p.QuestionHistory = p.QuestionHistory[len(p.QuestionHistory)-historyCap:]
	}
	return nil
}

func (s *MemStore) FindUnansweredQuestion(_ context.Context, skillIDs []string,
	answeredIDs []string, maxTimesShown int) (*learner.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := make(map[string]bool, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = true
	}
	wanted := make(map[string]bool, len(skillIDs))
	for _, id := range skillIDs {
		wanted[id] = true
	}

	var eligible []*learner.Question
	for _, q := range s.questions {
		if answered[q.QuestionID] || q.TimesShown >= maxTimesShown {
			continue
		}
		for _, id := range q.SkillIDs {
			if wanted[id] {
				eligible = append(eligible, q)
				break
			}
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].TimesShown != eligible[j].TimesShown {
			return eligible[i].TimesShown < eligible[j].TimesShown
		}
		return eligible[i].QuestionID < eligible[j].QuestionID
	})
	chosen := eligible[0]
	chosen.TimesShown++
	out := *chosen
	return &out, nil
}

func (s *MemStore) AnsweredQuestionIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	ids := make([]string, 0, len(p.QuestionHistory))
	for _, a := range p.QuestionHistory {
		ids = append(ids, a.QuestionID)
	}
	return ids, nil
}

func (s *MemStore) ListSkillDocuments(_ context.Context) ([]skillcache.SkillDocument, error) {
	return s.skillDocs, nil
}

// Profile returns the live stored profile for direct inspection and fixture
// surgery in tests.
func (s *MemStore) Profile(userID string) *learner.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID]
}

func cloneProfile(p *learner.UserProfile) *learner.UserProfile {
	out := *p
	out.SkillStates = make(map[string]learner.SkillState, len(p.SkillStates))
	for id, st := range p.SkillStates {
		if st.LastPracticeTime != nil {
			t := *st.LastPracticeTime
			st.LastPracticeTime = &t
		}
		out.SkillStates[id] = st
	}
	out.QuestionHistory = append([]learner.QuestionAttempt(nil), p.QuestionHistory...)
	return &out
}
