package learner

import "testing"

func TestParseGradeToken(t *testing.T) {
	cases := []struct {
		token   string
		want    int
		wantErr bool
	}{
		{"GRADE_K", 0, false},
		{"GRADE_0", 0, false},
		{"GRADE_3", 3, false},
		{"GRADE_12", 12, false},
		{"GRADE_13", 0, true},
		{"GRADE_-1", 0, true},
		{"GRADE_", 0, true},
		{"grade_3", 0, true},
		{"3", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseGradeToken(tc.token)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseGradeToken(%q): expected error, got %d", tc.token, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseGradeToken(%q): %v", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseGradeToken(%q) = %d, want %d", tc.token, got, tc.want)
		}
	}
}

func TestGradeToken(t *testing.T) {
	if got := GradeToken(0); got != "GRADE_K" {
		t.Errorf("GradeToken(0) = %q, want GRADE_K", got)
	}
	if got := GradeToken(7); got != "GRADE_7" {
		t.Errorf("GradeToken(7) = %q, want GRADE_7", got)
	}
}
