package errors

import (
	"strings"
	"testing"
)

func TestValidateFieldName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Temperature", false},
		{"with spaces", "Dew point temperature", false},
		{"unicode", "Température", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"control char", "Temp\x07", true},
		{"newline", "Temp\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimension) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidDimension)
			}
		})
	}
}

func TestValidateViewName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"scatter", false},
		{"parallel", false},
		{"view_2", false},
		{"", true},
		{"Scatter", true},
		{"2views", true},
		{"a/b", true},
		{strings.Repeat("v", 40), true},
	}

	for _, tt := range tests {
		if err := ValidateViewName(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateViewName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/SeoulBikeData.csv", false},
		{"absolute", "/tmp/out.svg", false},
		{"empty", "", true},
		{"null byte", "data\x00.csv", true},
		{"too long", strings.Repeat("x", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURI(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"mongodb://localhost:27017", false},
		{"mongodb+srv://cluster.example.net", false},
		{"", true},
		{"http://localhost", true},
		{"localhost:27017", true},
	}

	for _, tt := range tests {
		if err := ValidateURI(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidDimension,
		ErrCodeInvalidFormat,
		ErrCodeInvalidStyle,
		ErrCodeInvalidEvent,
		ErrCodeInvalidView,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeSessionNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
