package errors

import (
	"testing"
)

func TestValidateKindName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "map", false},
		{"valid with dash", "cell-map", false},
		{"valid with underscore", "cell_map", false},
		{"valid with digits", "chart2", false},

		{"empty", "", true},
		{"too long", "a" + string(make([]byte, 70)), true},
		{"uppercase", "Map", true},
		{"leading digit", "2chart", true},
		{"space", "cell map", true},
		{"dot", "cell.map", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKindName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKindName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKind) {
				t.Errorf("ValidateKindName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidKind)
			}
		})
	}
}

func TestValidateLayoutName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "dashboard", false},
		{"valid with spaces", "my dashboard", false},
		{"valid with dot inside", "tv.main", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"hidden", ".secret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayoutName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayoutName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid file", "slots.toml", false},
		{"valid nested", "layouts/tv/slots.json", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../slots.toml", true},
		{"backslash", "layouts\\slots.toml", true},
		{"null byte", "slots\x00.toml", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
