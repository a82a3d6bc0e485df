// Package skillcache holds the process-wide, read-only index of curriculum
// skills. It is built once at startup from the store's skill documents and
// never mutated afterwards, so lookups are safe across requests without
// locking.
package skillcache

import (
	"fmt"
	"strconv"
	"strings"
)

// Breadcrumb is the dotted numeric suffix of a skill id, encoding the
// skill's position in the curriculum hierarchy:
// topic.concept.subconcept.exercise.
type Breadcrumb []int

// FullDepth is the breadcrumb length required for topical-neighbour
// classification. Shorter breadcrumbs still identify a skill but do not
// participate in the topical cascade as a primary.
const FullDepth = 4

func (b Breadcrumb) String() string {
	parts := make([]string, len(b))
	for i, seg := range b {
		parts[i] = strconv.Itoa(seg)
	}
	return strings.Join(parts, ".")
}

// Topic, Concept and Subconcept return the hierarchy segments.
// They are only meaningful when the breadcrumb has FullDepth segments.
func (b Breadcrumb) Topic() int      { return b[0] }
func (b Breadcrumb) Concept() int    { return b[1] }
func (b Breadcrumb) Subconcept() int { return b[2] }
func (b Breadcrumb) Exercise() int   { return b[3] }

// ParseBreadcrumb parses a dotted string like "1.2.3.4".
func ParseBreadcrumb(s string) (Breadcrumb, error) {
	if s == "" {
		return nil, fmt.Errorf("empty breadcrumb")
	}
	parts := strings.Split(s, ".")
	bc := make(Breadcrumb, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("breadcrumb segment %q is not an integer", p)
		}
		bc[i] = n
	}
	return bc, nil
}

// Skill is one immutable curriculum node.
type Skill struct {
	ID             string
	Name           string
	Subject        string
	Grade          int
	Breadcrumb     Breadcrumb
	Prerequisites  []string
	ForgettingRate float64 // decay constant, per day of elapsed time
	Difficulty     float64 // in [0, 1]
}

// SkillID assembles the canonical id <subject>_<grade>_<breadcrumb>.
func SkillID(subject string, grade int, bc Breadcrumb) string {
	return fmt.Sprintf("%s_%d_%s", subject, grade, bc)
}

// ParseSkillID splits an id of the form <subject>_<grade>_<breadcrumb>.
// The subject may itself contain underscores; grade and breadcrumb are
// taken from the right.
func ParseSkillID(id string) (subject string, grade int, bc Breadcrumb, err error) {
	last := strings.LastIndex(id, "_")
	if last <= 0 {
		return "", 0, nil, fmt.Errorf("malformed skill id %q", id)
	}
	bc, err = ParseBreadcrumb(id[last+1:])
	if err != nil {
		return "", 0, nil, fmt.Errorf("skill id %q: %w", id, err)
	}
	rest := id[:last]
	mid := strings.LastIndex(rest, "_")
	if mid <= 0 {
		return "", 0, nil, fmt.Errorf("malformed skill id %q", id)
	}
	grade, err = strconv.Atoi(rest[mid+1:])
	if err != nil {
		return "", 0, nil, fmt.Errorf("skill id %q: grade segment %q is not an integer", id, rest[mid+1:])
	}
	return rest[:mid], grade, bc, nil
}
