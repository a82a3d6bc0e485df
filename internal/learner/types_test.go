package learner

import (
	"testing"
	"time"
)

func validProfile() *UserProfile {
	now := time.Now()
	return &UserProfile{
		UserID:     "u1",
		GradeLevel: "GRADE_3",
		SkillStates: map[string]SkillState{
			"math_3_1.1.1.1": {MemoryStrength: 0.5, LastPracticeTime: &now, PracticeCount: 4, CorrectCount: 3},
			"math_4_1.1.1.1": {MemoryStrength: LockedStrength},
		},
	}
}

func TestVerify(t *testing.T) {
	if err := validProfile().Verify(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	t.Run("correct exceeds practiced", func(t *testing.T) {
		p := validProfile()
		st := p.SkillStates["math_3_1.1.1.1"]
		st.CorrectCount = st.PracticeCount + 1
		p.SkillStates["math_3_1.1.1.1"] = st
		if err := p.Verify(); err == nil {
			t.Error("expected integrity error")
		}
	})

	t.Run("strength out of band", func(t *testing.T) {
		p := validProfile()
		st := p.SkillStates["math_3_1.1.1.1"]
		st.MemoryStrength = 1.3
		p.SkillStates["math_3_1.1.1.1"] = st
		if err := p.Verify(); err == nil {
			t.Error("expected integrity error")
		}
	})

	t.Run("practice without timestamp", func(t *testing.T) {
		p := validProfile()
		st := p.SkillStates["math_3_1.1.1.1"]
		st.LastPracticeTime = nil
		p.SkillStates["math_3_1.1.1.1"] = st
		if err := p.Verify(); err == nil {
			t.Error("expected integrity error")
		}
	})

	t.Run("never practiced outside cold-start band", func(t *testing.T) {
		p := validProfile()
		p.SkillStates["math_3_1.1.1.2"] = SkillState{MemoryStrength: 0.4}
		if err := p.Verify(); err == nil {
			t.Error("expected integrity error")
		}
	})

	t.Run("never practiced cold-start values pass", func(t *testing.T) {
		p := validProfile()
		for i, strength := range []float64{0, ColdStartMastered, LockedStrength} {
			id := "extra_" + string(rune('a'+i))
			p.SkillStates[id] = SkillState{MemoryStrength: strength}
		}
		if err := p.Verify(); err != nil {
			t.Errorf("cold-start values rejected: %v", err)
		}
	})

	t.Run("locked is valid", func(t *testing.T) {
		p := validProfile()
		if p.SkillStates["math_4_1.1.1.1"].Locked() != true {
			t.Error("locked state not reported")
		}
	})
}

func TestAnsweredQuestionIDs(t *testing.T) {
	p := validProfile()
	p.QuestionHistory = []QuestionAttempt{
		{QuestionID: "q1"},
		{QuestionID: "q2"},
		{QuestionID: "q1"},
	}
	ids := p.AnsweredQuestionIDs()
	if len(ids) != 2 || !ids["q1"] || !ids["q2"] {
		t.Errorf("AnsweredQuestionIDs = %v", ids)
	}
}
