package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op and message",
			err:  &Error{Op: "analysis.Analyze", Message: "identifier is required"},
			want: "analysis.Analyze: identifier is required",
		},
		{
			name: "op, message, and cause",
			err:  &Error{Op: "cache.Get", Message: "read failed", Err: stderrors.New("disk full")},
			want: "cache.Get: read failed: disk full",
		},
		{
			name: "message only",
			err:  &Error{Message: "boom"},
			want: "boom",
		},
		{
			name: "message and cause without op",
			err:  &Error{Message: "fetch failed", Err: stderrors.New("timeout")},
			want: "fetch failed: timeout",
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

func TestE(t *testing.T) {
	cause := stderrors.New("underlying")
	err := E("op.Name", KindNotFound, "thing missing", cause)

	var e *Error
	if !stderrors.As(err, &e) {
		t.Fatal("E() did not return *Error")
	}
	if e.Op != "op.Name" {
		t.Errorf("Op = %q, want %q", e.Op, "op.Name")
	}
	if e.Kind != KindNotFound {
		t.Errorf("Kind = %v, want KindNotFound", e.Kind)
	}
	if e.Message != "thing missing" {
		t.Errorf("Message = %q, want %q", e.Message, "thing missing")
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "op") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	cause := stderrors.New("boom")
	err := Wrap(cause, "server.handleRisk")
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable")
	}
}

func TestGetKind(t *testing.T) {
	if got := GetKind(E(KindTimeout, "op", "slow")); got != KindTimeout {
		t.Errorf("GetKind = %v, want KindTimeout", got)
	}
	if got := GetKind(stderrors.New("plain")); got != KindUnknown {
		t.Errorf("GetKind on plain error = %v, want KindUnknown", got)
	}
	if got := GetKind(nil); got != KindUnknown {
		t.Errorf("GetKind(nil) = %v, want KindUnknown", got)
	}

	// Kind survives wrapping with fmt.Errorf.
	wrapped := fmt.Errorf("context: %w", E(KindNotFound, "op", "missing"))
	if got := GetKind(wrapped); got != KindNotFound {
		t.Errorf("GetKind on wrapped = %v, want KindNotFound", got)
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"kind not found", E("op", KindNotFound, "missing"), true},
		{"provider 404", &ProviderError{Provider: "defillama", StatusCode: http.StatusNotFound}, true},
		{"provider 500", &ProviderError{Provider: "defillama", StatusCode: http.StatusInternalServerError}, false},
		{"plain error", stderrors.New("nope"), false},
		{"sentinel", ErrUnknownEntity, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit kind", E(KindRateLimit, "op", "slow down"), true},
		{"network kind", E(KindNetwork, "op", "refused"), true},
		{"timeout kind", E(KindTimeout, "op", "slow"), true},
		{"provider 429", &ProviderError{StatusCode: http.StatusTooManyRequests}, true},
		{"provider 503", &ProviderError{StatusCode: http.StatusServiceUnavailable}, true},
		{"provider 501", &ProviderError{StatusCode: http.StatusNotImplemented}, false},
		{"provider 404", &ProviderError{StatusCode: http.StatusNotFound}, false},
		{"invalid input", E(KindInvalidInput, "op", "bad"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProviderErrorFormatting(t *testing.T) {
	withStatus := &ProviderError{Provider: "coingecko", StatusCode: 429, Message: "throttled"}
	if got := withStatus.Error(); got != "coingecko: Too Many Requests: throttled" {
		t.Errorf("Error() = %q", got)
	}

	withoutStatus := &ProviderError{Provider: "coingecko", Message: "connection reset"}
	if got := withoutStatus.Error(); got != "coingecko: connection reset" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := E("op", KindNotFound, "missing")
	if !stderrors.Is(err, ErrUnknownEntity) {
		t.Error("errors with the same kind should match via errors.Is")
	}
	if stderrors.Is(err, ErrTimeout) {
		t.Error("errors with different kinds should not match")
	}
}
