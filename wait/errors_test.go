package wait

import (
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/readygate/health"
)

func TestTimeoutError_Error(t *testing.T) {
	err := &TimeoutError{
		Description: "postgres",
		Timeout:     2 * time.Minute,
		Attempts:    14,
		Last:        health.Failure("connection refused"),
	}

	want := `readiness: timed out after 2m0s waiting for "postgres" (14 attempts): failure: connection refused`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTimeoutError_Unwrap(t *testing.T) {
	cause := errors.New("refused")
	var err error = &TimeoutError{Last: health.Error(cause)}

	if !errors.Is(err, ErrReadinessTimeout) {
		t.Error("errors.Is(err, ErrReadinessTimeout) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestPanicError_Unwrap(t *testing.T) {
	cause := errors.New("nil map")
	err := &PanicError{Value: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if (&PanicError{Value: 42}).Unwrap() != nil {
		t.Error("Unwrap() of non-error value should be nil")
	}
}
