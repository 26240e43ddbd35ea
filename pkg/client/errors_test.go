package client

import (
	"context"
	"errors"
	"testing"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassClient, false},
		{ErrorClassServer, true},
		{ErrorClassRateLimit, true},
		{ErrorClassNetwork, true},
		{ErrorClass(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			if got := shouldRetry(tt.class); got != tt.want {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{200, ""},
		{304, ""},
		{400, ErrorClassClient},
		{401, ErrorClassClient},
		{404, ErrorClassClient},
		{429, ErrorClassRateLimit},
		{500, ErrorClassServer},
		{502, ErrorClassServer},
		{503, ErrorClassServer},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "without wrapped error",
			err:  &APIError{StatusCode: 404, ErrorClass: ErrorClassClient, Message: "Not found."},
			want: "RAWG client error (status 404): Not found.",
		},
		{
			name: "with wrapped error",
			err:  &APIError{StatusCode: 503, ErrorClass: ErrorClassServer, Message: "503 Service Unavailable", Err: errors.New("upstream down")},
			want: "RAWG server error (status 503): 503 Service Unavailable: upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &APIError{StatusCode: 500, ErrorClass: ErrorClassServer, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is(APIError, inner) = false, want true")
	}
	if (&APIError{}).Unwrap() != nil {
		t.Error("Unwrap() of bare APIError should be nil")
	}
}

func TestContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := contextError(ctx)
	if !catalog.IsCancelled(err) {
		t.Errorf("contextError(cancelled) = %v, want IsCancelled", err)
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("contextError(cancelled) = %v, want ErrContextCancelled", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	err = contextError(ctx)
	if catalog.IsCancelled(err) {
		t.Errorf("contextError(deadline) = %v, must not be a cancellation", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("contextError(deadline) = %v, want DeadlineExceeded", err)
	}
}
