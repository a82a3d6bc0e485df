package skillcache

import (
	"testing"

	"go.uber.org/zap"
)

func flatDoc(id string, prereqs ...string) SkillDocument {
	return SkillDocument{
		SkillID:       id,
		Name:          id,
		Prerequisites: prereqs,
	}
}

func TestBuildFlatDocuments(t *testing.T) {
	docs := []SkillDocument{
		flatDoc("math_3_1.1.1.1"),
		flatDoc("math_3_1.1.1.2", "1.1.1.1"),
		flatDoc("math_4_1.1.1.1", "math_3_1.1.1.2"),
	}
	c, err := Build(docs, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	s, ok := c.Get("math_3_1.1.1.2")
	if !ok {
		t.Fatal("skill missing")
	}
	// Bare breadcrumb prerequisite rewritten within subject and grade.
	if len(s.Prerequisites) != 1 || s.Prerequisites[0] != "math_3_1.1.1.1" {
		t.Errorf("prerequisites = %v", s.Prerequisites)
	}

	if grades := c.Grades(); len(grades) != 2 || grades[0] != 3 || grades[1] != 4 {
		t.Errorf("Grades = %v", grades)
	}
	if ids := c.ByGrade(3); len(ids) != 2 {
		t.Errorf("ByGrade(3) = %v", ids)
	}
}

func TestBuildHierarchicalDocument(t *testing.T) {
	doc := SkillDocument{
		Subject:    "math",
		GradeLevel: 3,
		Topics: []TopicDocument{{
			Name: "arithmetic",
			Concepts: []ConceptDocument{{
				Name: "addition",
				Subconcepts: []SubconceptDocument{{
					Name: "carrying",
					Exercises: []ExerciseDocument{
						{Name: "two digit sums"},
						{Name: "three digit sums", Prerequisites: []string{"1.1.1.1"}},
					},
				}},
			}},
		}},
	}
	c, err := Build([]SkillDocument{doc}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	s, ok := c.Get("math_3_1.1.1.2")
	if !ok {
		t.Fatal("flattened exercise missing")
	}
	if s.Name != "three digit sums" {
		t.Errorf("Name = %q", s.Name)
	}
	if len(s.Prerequisites) != 1 || s.Prerequisites[0] != "math_3_1.1.1.1" {
		t.Errorf("prerequisites = %v", s.Prerequisites)
	}
	if s.ForgettingRate != DefaultForgettingRate || s.Difficulty != DefaultDifficulty {
		t.Errorf("defaults not applied: rate=%v difficulty=%v", s.ForgettingRate, s.Difficulty)
	}
}

func TestBuildKeepsAuthoredZeroDifficulty(t *testing.T) {
	zero := 0.0
	docs := []SkillDocument{{
		SkillID:    "math_3_1.1.1.1",
		Name:       "trivial warmup",
		Difficulty: &zero,
	}}
	c, err := Build(docs, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	s, _ := c.Get("math_3_1.1.1.1")
	if s.Difficulty != 0 {
		t.Errorf("Difficulty = %v, want authored 0", s.Difficulty)
	}
}

func TestBuildDropsMissingPrerequisites(t *testing.T) {
	docs := []SkillDocument{
		flatDoc("math_3_1.1.1.1", "math_2_9.9.9.9"),
	}
	c, err := Build(docs, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	s, _ := c.Get("math_3_1.1.1.1")
	if len(s.Prerequisites) != 0 {
		t.Errorf("missing prerequisite kept: %v", s.Prerequisites)
	}
}

func TestBuildRejectsCycle(t *testing.T) {
	docs := []SkillDocument{
		flatDoc("math_3_1.1.1.1", "1.1.1.2"),
		flatDoc("math_3_1.1.1.2", "1.1.1.1"),
	}
	if _, err := Build(docs, zap.NewNop()); err == nil {
		t.Fatal("cycle accepted")
	}
}

func TestBuildRejectsDuplicate(t *testing.T) {
	docs := []SkillDocument{
		flatDoc("math_3_1.1.1.1"),
		flatDoc("math_3_1.1.1.1"),
	}
	if _, err := Build(docs, zap.NewNop()); err == nil {
		t.Fatal("duplicate accepted")
	}
}

func TestTransitivePrerequisites(t *testing.T) {
	docs := []SkillDocument{
		flatDoc("math_3_1.1.1.1"),
		flatDoc("math_3_1.1.1.2", "1.1.1.1"),
		flatDoc("math_3_1.1.1.3", "1.1.1.2"),
		flatDoc("math_3_1.1.2.1", "1.1.1.3", "1.1.1.1"),
	}
	c, err := Build(docs, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	closure := c.TransitivePrerequisites("math_3_1.1.2.1")
	if len(closure) != 3 {
		t.Fatalf("closure = %v, want 3 skills deduplicated", closure)
	}
	seen := map[string]bool{}
	for _, id := range closure {
		if seen[id] {
			t.Fatalf("duplicate %q in closure", id)
		}
		seen[id] = true
	}
}
