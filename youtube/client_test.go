package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestAPIErrorClassifier(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"channel not found", ErrChannelNotFound, false},
		{"duplicate video", ErrDuplicateVideo, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"server error", &googleapi.Error{Code: 503}, true},
		{"too many requests", &googleapi.Error{Code: 429}, true},
		{"rate limit reason", &googleapi.Error{
			Code:   403,
			Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}},
		}, true},
		{"quota reason", &googleapi.Error{
			Code:   403,
			Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
		}, true},
		{"forbidden", &googleapi.Error{Code: 403}, false},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"transport error", errors.New("connection reset"), true},
		{"wrapped api error", fmt.Errorf("call: %w", &googleapi.Error{Code: 500}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiErrorClassifier(tt.err); got != tt.want {
				t.Errorf("apiErrorClassifier(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsDuplicateInsert(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"conflict", &googleapi.Error{Code: 409}, true},
		{"already in playlist", &googleapi.Error{
			Code:   400,
			Errors: []googleapi.ErrorItem{{Reason: "videoAlreadyInPlaylist"}},
		}, true},
		{"duplicate reason", &googleapi.Error{
			Code:   400,
			Errors: []googleapi.ErrorItem{{Reason: "duplicateItem"}},
		}, true},
		{"plain failure", &googleapi.Error{Code: 500}, false},
		{"not an api error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateInsert(tt.err); got != tt.want {
				t.Errorf("isDuplicateInsert(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	err := &APIError{Op: "insert", Resource: "abc123", Err: ErrDuplicateVideo}

	if !errors.Is(err, ErrDuplicateVideo) {
		t.Error("errors.Is() should match the wrapped sentinel")
	}

	var apiErr *APIError
	if !errors.As(fmt.Errorf("sync: %w", err), &apiErr) {
		t.Fatal("errors.As() should extract *APIError")
	}
	if apiErr.Op != "insert" || apiErr.Resource != "abc123" {
		t.Errorf("APIError = %+v, want Op=insert Resource=abc123", apiErr)
	}
}

func TestQuota(t *testing.T) {
	tests := []struct {
		channels int
		want     int
	}{
		{0, 1},
		{10, 21},
		{50, 102},
		{120, 243},
	}

	for _, tt := range tests {
		if got := Quota(tt.channels); got != tt.want {
			t.Errorf("Quota(%d) = %d, want %d", tt.channels, got, tt.want)
		}
	}
}
