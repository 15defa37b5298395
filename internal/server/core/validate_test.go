package core

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"4", 4, false},
		{" 90 ", 90, false},
		{"-3", -3, false}, // range is checked by Validate
		{"four", 0, true},
		{"4.5", 0, true},
		{"0x10", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCount("n", tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCount(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("ParseCount(%q) err type %T, want *ValidationError", tt.raw, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid game", func(t *testing.T) {
		req := &CreateGameRequest{Name: "Catan", MaxPlayers: 4, AverageDuration: 90, Category: "Strategy"}
		if err := Validate(req); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("zero counts are valid", func(t *testing.T) {
		req := &CreateGameRequest{Name: "Solo", Category: "Puzzle"}
		if err := Validate(req); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("text is not length capped", func(t *testing.T) {
		long := strings.Repeat("a", 1000)
		if err := Validate(&CreateGameRequest{Name: long, Category: long}); err != nil {
			t.Errorf("Validate() game error = %v", err)
		}
		if err := Validate(&CreateMatchRequest{Date: "2024-01-01", Winner: long}); err != nil {
			t.Errorf("Validate() match error = %v", err)
		}
	})

	t.Run("whitespace-only text is blank", func(t *testing.T) {
		err := Validate(&CreateGameRequest{Name: "  Catan  ", Category: " \t "})
		if err == nil || !strings.Contains(err.Error(), FieldCategory+" is required") {
			t.Errorf("Validate() err = %v, want %s required", err, FieldCategory)
		}
		if err != nil && strings.Contains(err.Error(), FieldName) {
			t.Errorf("Validate() rejected padded name: %v", err)
		}
	})

	t.Run("every failure reported", func(t *testing.T) {
		req := &CreateGameRequest{MaxPlayers: -1}
		err := Validate(req)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate() err = %v, want *ValidationError", err)
		}
		for _, want := range []string{
			FieldName + " is required",
			FieldMaxPlayers + " must be at least 0",
			FieldCategory + " is required",
		} {
			if !strings.Contains(ve.Details, want) {
				t.Errorf("details %q missing %q", ve.Details, want)
			}
		}
	})

	t.Run("match date layout", func(t *testing.T) {
		ok := &CreateMatchRequest{Date: "2024-01-01", Winner: "Alice", WinningScore: 15}
		if err := Validate(ok); err != nil {
			t.Errorf("Validate() error = %v", err)
		}

		bad := &CreateMatchRequest{Date: "2024-13-01", Winner: "Alice"}
		err := Validate(bad)
		if err == nil || !strings.Contains(err.Error(), FieldDate+" must be a date") {
			t.Errorf("Validate() err = %v, want date error", err)
		}
	})
}
