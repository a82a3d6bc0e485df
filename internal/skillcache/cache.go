package skillcache

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Cache is the flattened skill index. It is immutable after Build; no
// mutation API is exposed.
type Cache struct {
	byID    map[string]Skill
	byGrade map[int][]string
	grades  []int
}

// Build flattens the given store documents into a Cache. Prerequisite
// references to skills that do not exist are logged and dropped; duplicate
// ids and prerequisite cycles abort the build.
func Build(docs []SkillDocument, log *zap.Logger) (*Cache, error) {
	byID := make(map[string]Skill)
	for _, doc := range docs {
		skills, err := flattenDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("flatten skill document: %w", err)
		}
		for _, s := range skills {
			if _, dup := byID[s.ID]; dup {
				return nil, fmt.Errorf("duplicate skill id %q", s.ID)
			}
			byID[s.ID] = s
		}
	}

	// Drop prerequisites that point at nothing.
	for id, s := range byID {
		kept := s.Prerequisites[:0:0]
		for _, p := range s.Prerequisites {
			if _, ok := byID[p]; !ok {
				log.Warn("dropping missing prerequisite",
					zap.String("skill_id", id),
					zap.String("prerequisite", p))
				continue
			}
			kept = append(kept, p)
		}
		s.Prerequisites = kept
		byID[id] = s
	}

	if err := validateSkills(byID); err != nil {
		return nil, err
	}

	c := &Cache{
		byID:    byID,
		byGrade: make(map[int][]string),
	}
	for id, s := range byID {
		c.byGrade[s.Grade] = append(c.byGrade[s.Grade], id)
	}
	for grade, ids := range c.byGrade {
		sort.Strings(ids)
		c.grades = append(c.grades, grade)
	}
	sort.Ints(c.grades)

	log.Info("skill cache built",
		zap.Int("skills", len(byID)),
		zap.Ints("grades", c.grades))
	return c, nil
}

// Get returns the skill for id.
func (c *Cache) Get(id string) (Skill, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Len returns the number of skills in the cache.
func (c *Cache) Len() int {
	return len(c.byID)
}

// IDs returns all skill ids in sorted order.
func (c *Cache) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByGrade returns the sorted skill ids at the given grade level.
func (c *Cache) ByGrade(grade int) []string {
	return c.byGrade[grade]
}

// Grades returns the ascending list of grade levels present in the cache.
func (c *Cache) Grades() []int {
	return c.grades
}

// TransitivePrerequisites walks the prerequisite closure of id, deduplicating
// visited nodes. The result excludes id itself and is in breadth-first order.
func (c *Cache) TransitivePrerequisites(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	queue := append([]string(nil), c.byID[id].Prerequisites...)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if ps, ok := c.byID[p]; ok {
			queue = append(queue, ps.Prerequisites...)
		}
	}
	return out
}
