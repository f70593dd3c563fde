package passcode

import (
	"regexp"
	"testing"
)

func TestNewNumeric(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "default on non positive", length: 0},
		{name: "minimum", length: 4},
		{name: "maximum", length: 10},
		{name: "too short", length: 3, wantErr: true},
		{name: "too long", length: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNumeric(tt.length)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewNumeric(%d) error = %v, wantErr %v", tt.length, err, tt.wantErr)
			}
		})
	}
}

func TestNumericGenerate(t *testing.T) {
	gen, err := NewNumeric(0)
	if err != nil {
		t.Fatalf("NewNumeric: %v", err)
	}

	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for range 100 {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("Generate() = %q, want six decimal digits", code)
		}
	}
}

func TestNumericGenerateCustomLength(t *testing.T) {
	gen, err := NewNumeric(8)
	if err != nil {
		t.Fatalf("NewNumeric: %v", err)
	}

	code, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("Generate() length = %d, want 8", len(code))
	}
}
