package keyboard_test

import (
	"strings"
	"testing"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
)

func TestEncodeCallback(t *testing.T) {
	tests := []struct {
		name      string
		unique    string
		data      string
		want      string
		wantError bool
	}{
		{
			name:   "with data",
			unique: "genre",
			data:   "fantasy",
			want:   "genre:fantasy",
		},
		{
			name:   "without data",
			unique: "favorites",
			data:   "",
			want:   "favorites",
		},
		{
			name:      "exceeds limit",
			unique:    strings.Repeat("x", keyboard.CallbackDataLimitBytes+1),
			data:      "",
			wantError: true,
		},
		{
			name:      "combined payload exceeds limit",
			unique:    "genre",
			data:      strings.Repeat("y", keyboard.CallbackDataLimitBytes),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := keyboard.EncodeCallback(tt.unique, tt.data)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("EncodeCallback() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantUnique string
		wantData   string
		wantError  bool
	}{
		{
			name:       "with data",
			input:      "genre:fantasy",
			wantUnique: "genre",
			wantData:   "fantasy",
		},
		{
			name:       "without data",
			input:      "favorites",
			wantUnique: "favorites",
			wantData:   "",
		},
		{
			name:       "data containing separator",
			input:      "admin:clear_cache:extra",
			wantUnique: "admin",
			wantData:   "clear_cache:extra",
		},
		{
			name:      "empty input",
			input:     "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, data, err := keyboard.DecodeCallback(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if unique != tt.wantUnique || data != tt.wantData {
				t.Errorf("DecodeCallback() = (%q, %q), want (%q, %q)", unique, data, tt.wantUnique, tt.wantData)
			}
		})
	}
}
