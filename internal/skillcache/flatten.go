package skillcache

import (
	"fmt"
	"strings"
)

// Default attributes applied when a curriculum document omits them.
const (
	DefaultForgettingRate = 0.05
	DefaultDifficulty     = 0.5
)

// SkillDocument is one document from the skills collection. The ETL may
// write either flat documents (SkillID set, Topics empty) or hierarchical
// curriculum documents (Subject/GradeLevel set with a Topics tree); the
// cache flattens both into Skill records.
type SkillDocument struct {
	SkillID        string          `bson:"skill_id,omitempty" json:"skill_id,omitempty" yaml:"skill_id,omitempty"`
	Name           string          `bson:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Subject        string          `bson:"subject,omitempty" json:"subject,omitempty" yaml:"subject,omitempty"`
	GradeLevel     int             `bson:"grade_level" json:"grade_level" yaml:"grade_level"`
	Prerequisites  []string        `bson:"prerequisites,omitempty" json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	ForgettingRate float64         `bson:"forgetting_rate,omitempty" json:"forgetting_rate,omitempty" yaml:"forgetting_rate,omitempty"`
	Difficulty     *float64        `bson:"difficulty,omitempty" json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Topics         []TopicDocument `bson:"topics,omitempty" json:"topics,omitempty" yaml:"topics,omitempty"`
}

// TopicDocument is one topic in a hierarchical curriculum document.
type TopicDocument struct {
	Name     string            `bson:"name" json:"name" yaml:"name"`
	Concepts []ConceptDocument `bson:"concepts" json:"concepts" yaml:"concepts"`
}

// ConceptDocument is one concept under a topic.
type ConceptDocument struct {
	Name        string               `bson:"name" json:"name" yaml:"name"`
	Subconcepts []SubconceptDocument `bson:"subconcepts" json:"subconcepts" yaml:"subconcepts"`
}

// SubconceptDocument is one subconcept under a concept.
type SubconceptDocument struct {
	Name      string             `bson:"name" json:"name" yaml:"name"`
	Exercises []ExerciseDocument `bson:"exercises" json:"exercises" yaml:"exercises"`
}

// ExerciseDocument is a leaf exercise; it becomes one Skill.
type ExerciseDocument struct {
	Name           string   `bson:"name" json:"name" yaml:"name"`
	Prerequisites  []string `bson:"prerequisites,omitempty" json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	ForgettingRate float64  `bson:"forgetting_rate,omitempty" json:"forgetting_rate,omitempty" yaml:"forgetting_rate,omitempty"`
	Difficulty     *float64 `bson:"difficulty,omitempty" json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// flattenDocument expands one store document into Skill records.
// Hierarchical documents get ids assembled from 1-based positions in the
// topic/concept/subconcept/exercise arrays.
func flattenDocument(doc SkillDocument) ([]Skill, error) {
	if doc.SkillID != "" {
		return flattenFlat(doc)
	}
	if doc.Subject == "" {
		return nil, fmt.Errorf("skill document has neither skill_id nor subject")
	}
	var skills []Skill
	for ti, topic := range doc.Topics {
		for ci, concept := range topic.Concepts {
			for si, sub := range concept.Subconcepts {
				for ei, ex := range sub.Exercises {
					bc := Breadcrumb{ti + 1, ci + 1, si + 1, ei + 1}
					skills = append(skills, Skill{
						ID:             SkillID(doc.Subject, doc.GradeLevel, bc),
						Name:           ex.Name,
						Subject:        doc.Subject,
						Grade:          doc.GradeLevel,
						Breadcrumb:     bc,
						Prerequisites:  rewritePrereqs(ex.Prerequisites, doc.Subject, doc.GradeLevel),
						ForgettingRate: orDefault(ex.ForgettingRate, DefaultForgettingRate),
						Difficulty:     difficultyOrDefault(ex.Difficulty),
					})
				}
			}
		}
	}
	return skills, nil
}

func flattenFlat(doc SkillDocument) ([]Skill, error) {
	subject, grade, bc, err := ParseSkillID(doc.SkillID)
	if err != nil {
		return nil, err
	}
	return []Skill{{
		ID:             doc.SkillID,
		Name:           doc.Name,
		Subject:        subject,
		Grade:          grade,
		Breadcrumb:     bc,
		Prerequisites:  rewritePrereqs(doc.Prerequisites, subject, grade),
		ForgettingRate: orDefault(doc.ForgettingRate, DefaultForgettingRate),
		Difficulty:     difficultyOrDefault(doc.Difficulty),
	}}, nil
}

// rewritePrereqs turns bare breadcrumb references ("1.1.1") into full skill
// ids within the same subject and grade. References that already carry a
// subject prefix pass through unchanged.
func rewritePrereqs(prereqs []string, subject string, grade int) []string {
	if len(prereqs) == 0 {
		return nil
	}
	out := make([]string, 0, len(prereqs))
	for _, p := range prereqs {
		if strings.Contains(p, "_") {
			out = append(out, p)
			continue
		}
		out = append(out, fmt.Sprintf("%s_%d_%s", subject, grade, p))
	}
	return out
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// difficultyOrDefault distinguishes an authored zero from an omitted field:
// zero is a valid difficulty, so presence is carried by the pointer.
func difficultyOrDefault(v *float64) float64 {
	if v == nil {
		return DefaultDifficulty
	}
	return *v
}
