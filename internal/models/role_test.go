package models

import "testing"

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		input   string
		want    RoleName
		wantErr bool
	}{
		{"Teacher", RoleTeacher, false},
		{"Student", RoleStudent, false},
		{"teacher", "", true},
		{"STUDENT", "", true},
		{"Admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRoleName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRoleName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRoleName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
