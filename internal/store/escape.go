package store

import (
	"strings"

	"dashtutor/internal/learner"
)

// MongoDB update operators read every dot in a field path as an embedded-
// document separator, with no escape, so the dotted skill ids of the
// curriculum cannot appear verbatim as skill_states keys: a $set on
// "skill_states.math_3_1.1.1.1.memory_strength" would address a nested
// document chain under "math_3_1" instead of the literal map key. Stored
// keys therefore carry %-escaped dots ("math_3_1%2E1%2E1%2E1"); the adapter
// escapes on every write path and unescapes on every read, so the rest of
// the engine only ever sees real ids.

func escapeSkillID(id string) string {
	id = strings.ReplaceAll(id, "%", "%25")
	return strings.ReplaceAll(id, ".", "%2E")
}

func unescapeSkillID(id string) string {
	id = strings.ReplaceAll(id, "%2E", ".")
	return strings.ReplaceAll(id, "%25", "%")
}

// escapedSkillStates rewrites the map for storage. The input is not mutated.
func escapedSkillStates(states map[string]learner.SkillState) map[string]learner.SkillState {
	out := make(map[string]learner.SkillState, len(states))
	for id, st := range states {
		out[escapeSkillID(id)] = st
	}
	return out
}

// unescapeSkillStates restores real skill ids on a freshly decoded profile.
func unescapeSkillStates(p *learner.UserProfile) {
	states := make(map[string]learner.SkillState, len(p.SkillStates))
	for id, st := range p.SkillStates {
		states[unescapeSkillID(id)] = st
	}
	p.SkillStates = states
}
