// ABOUTME: Tests for verdict parsing of model responses
// ABOUTME: Covers code fences, clamping, and malformed JSON
package eval

import (
	"strings"
	"testing"
)

func TestParseVerdictPlainJSON(t *testing.T) {
	verdict, err := parseVerdict(`{"score": 72, "feedback": "Solid but not time-bound.", "suggestions": ["Add a deadline"]}`)
	if err != nil {
		t.Fatalf("parseVerdict failed: %v", err)
	}
	if verdict.Score != 72 {
		t.Errorf("expected score 72, got %d", verdict.Score)
	}
	if verdict.Feedback != "Solid but not time-bound." {
		t.Errorf("unexpected feedback: %q", verdict.Feedback)
	}
	if len(verdict.Suggestions) != 1 || verdict.Suggestions[0] != "Add a deadline" {
		t.Errorf("unexpected suggestions: %v", verdict.Suggestions)
	}
}

func TestParseVerdictCodeFence(t *testing.T) {
	raw := "```json\n{\"score\": 90, \"feedback\": \"Specific and in your control.\"}\n```"
	verdict, err := parseVerdict(raw)
	if err != nil {
		t.Fatalf("parseVerdict failed: %v", err)
	}
	if verdict.Score != 90 {
		t.Errorf("expected score 90, got %d", verdict.Score)
	}
}

func TestParseVerdictBareFence(t *testing.T) {
	raw := "```\n{\"score\": 55, \"feedback\": \"ok\"}\n```"
	verdict, err := parseVerdict(raw)
	if err != nil {
		t.Fatalf("parseVerdict failed: %v", err)
	}
	if verdict.Score != 55 {
		t.Errorf("expected score 55, got %d", verdict.Score)
	}
}

func TestParseVerdictClampsScore(t *testing.T) {
	high, err := parseVerdict(`{"score": 150, "feedback": "overenthusiastic"}`)
	if err != nil {
		t.Fatalf("parseVerdict failed: %v", err)
	}
	if high.Score != 100 {
		t.Errorf("expected score clamped to 100, got %d", high.Score)
	}

	low, err := parseVerdict(`{"score": -5, "feedback": "harsh"}`)
	if err != nil {
		t.Fatalf("parseVerdict failed: %v", err)
	}
	if low.Score != 0 {
		t.Errorf("expected score clamped to 0, got %d", low.Score)
	}
}

func TestParseVerdictMalformed(t *testing.T) {
	_, err := parseVerdict("I think this task is pretty good overall.")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if !strings.Contains(err.Error(), "unparseable verdict") {
		t.Errorf("unexpected error: %v", err)
	}
}
