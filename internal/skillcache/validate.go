package skillcache

import (
	"fmt"
	"strings"
)

// validateSkills performs the structural checks on the flattened skill set.
// Prerequisites must already be resolved (missing targets dropped by the
// builder); remaining problems are fatal and abort the cache build.
func validateSkills(skills map[string]Skill) error {
	var errs []string

	for id, s := range skills {
		if s.Grade < 0 {
			errs = append(errs, fmt.Sprintf("skill %q: negative grade %d", id, s.Grade))
		}
		if s.ForgettingRate <= 0 {
			errs = append(errs, fmt.Sprintf("skill %q: forgetting rate must be > 0, got %v", id, s.ForgettingRate))
		}
		if s.Difficulty < 0 || s.Difficulty > 1 {
			errs = append(errs, fmt.Sprintf("skill %q: difficulty must be in [0, 1], got %v", id, s.Difficulty))
		}
	}

	// Cycle check over the prerequisite graph (Kahn's algorithm).
	inDegree := make(map[string]int, len(skills))
	dependents := make(map[string][]string)
	for id, s := range skills {
		inDegree[id] = len(s.Prerequisites)
		for _, prereqID := range s.Prerequisites {
			dependents[prereqID] = append(dependents[prereqID], id)
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range dependents[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(skills) {
		var cycleNodes []string
		for id, deg := range inDegree {
			if deg > 0 {
				cycleNodes = append(cycleNodes, id)
			}
		}
		errs = append(errs, fmt.Sprintf("prerequisite cycle involving skills: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill cache validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
