package learner

import (
	"fmt"
	"strconv"
	"strings"
)

// MinGrade and MaxGrade bound the supported grade range.
// Kindergarten is grade 0.
const (
	MinGrade = 0
	MaxGrade = 12
)

// ParseGradeToken converts a wire grade token ("GRADE_K", "GRADE_0".."GRADE_12")
// into its integer grade level.
func ParseGradeToken(token string) (int, error) {
	suffix, ok := strings.CutPrefix(token, "GRADE_")
	if !ok || suffix == "" {
		return 0, fmt.Errorf("malformed grade token %q", token)
	}
	if suffix == "K" {
		return 0, nil
	}
	g, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("malformed grade token %q", token)
	}
	if g < MinGrade || g > MaxGrade {
		return 0, fmt.Errorf("grade %d out of range [%d, %d]", g, MinGrade, MaxGrade)
	}
	return g, nil
}

// GradeToken formats an integer grade level as its wire token.
// Grade 0 is rendered as GRADE_K.
func GradeToken(grade int) string {
	if grade == 0 {
		return "GRADE_K"
	}
	return fmt.Sprintf("GRADE_%d", grade)
}
