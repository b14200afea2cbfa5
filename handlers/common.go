// ABOUTME: Shared output conversion helpers for MCP tool handlers
package handlers

import (
	"time"
)

func timeString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func timePtrString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timeString(*t)
	return &s
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
