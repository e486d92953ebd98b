package utils

import (
	"context"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Celestia Moon", 20, "Celestia Moon"},
		{"Celestia Moon", 8, "Celestia"},
		{"古池や蛙飛び込む", 3, "古池や"},
		{"   ", 5, "Unknown"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestNormalizeLines(t *testing.T) {
	got := NormalizeLines("  As the stars\t begin \n\n\n to gleam  \n")
	if want := "As the stars begin\nto gleam"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords(" the quiet\nhills  "); got != 3 {
		t.Errorf("CountWords = %d, want 3", got)
	}
}

func TestRequestID(t *testing.T) {
	if RequestID(context.Background()) != nil {
		t.Error("expected nil id on a bare context")
	}

	ctx := WithRequestID(context.Background(), "abc")
	if id := RequestID(ctx); id == nil || *id != "abc" {
		t.Errorf("RequestID = %v", id)
	}
}
