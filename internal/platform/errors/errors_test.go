package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodesServeWithStatus(t *testing.T) {
	want := map[ErrorCode]int{
		ErrorCodeNotFound:          http.StatusNotFound,
		ErrorCodeValidation:        http.StatusBadRequest,
		ErrorCodeUnsupportedFormat: http.StatusNotAcceptable,
		ErrorCodeUnavailable:       http.StatusServiceUnavailable,
		ErrorCodeDB:                http.StatusInternalServerError,
		ErrorCodePanic:             http.StatusInternalServerError,
		ErrorCodeUnknown:           http.StatusInternalServerError,
		ErrorCode(999):             http.StatusInternalServerError,
	}
	for code, status := range want {
		if got := HTTPStatusCode(code); got != status {
			t.Errorf("%v served with %d, want %d", code, got, status)
		}
	}
	if ErrorCodeUnsupportedFormat.String() != "unsupported_format" || ErrorCode(999).String() != "code(999)" {
		t.Fatalf("names: %s %s", ErrorCodeUnsupportedFormat, ErrorCode(999))
	}
}

func TestCauseStaysOffTheWire(t *testing.T) {
	cause := stderrs.New("dial tcp 10.0.0.4:9000: connection refused")
	err := Wrapf(cause, ErrorCodeUnavailable, "analytical store unavailable for %s", "options-signals")

	if got := err.Error(); got != "analytical store unavailable for options-signals: "+cause.Error() {
		t.Fatalf("Error() = %q", got)
	}
	if !stderrs.Is(err, cause) || Root(fmt.Errorf("resolve: %w", err)) != cause {
		t.Fatal("cause not reachable through the chain")
	}
	w := WireFrom(fmt.Errorf("resolve: %w", err))
	if w.Code != ErrorCodeUnavailable || w.Message != "analytical store unavailable for options-signals" {
		t.Fatalf("wire = %+v", w)
	}
	if HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", HTTPStatus(err))
	}
}

func TestWireFromForeignAndNil(t *testing.T) {
	if WireFrom(nil) != (Wire{}) {
		t.Fatal("nil should give the zero wire")
	}
	if w := WireFrom(stderrs.New("eof")); w.Code != ErrorCodeUnknown || w.Message != "eof" {
		t.Fatalf("foreign = %+v", w)
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatal("nil *Error should render <nil>")
	}
}

func TestWithFieldCopies(t *testing.T) {
	base := Validationf("top_n must be at most %d", 50)
	tagged := WithField(base, "top_n")

	if e, _ := As(tagged); e.Field() != "top_n" || e.ToWire().Field != "top_n" {
		t.Fatalf("field not attached: %+v", e.ToWire())
	}
	if e, _ := As(base); e.Field() != "" {
		t.Fatal("original error was modified")
	}
	foreign := stderrs.New("x")
	if WithField(foreign, "top_n") != foreign {
		t.Fatal("foreign errors should pass through")
	}
}

func TestConstructors(t *testing.T) {
	cases := map[ErrorCode]error{
		ErrorCodeNotFound:          NotFoundf("no artifact for %s", "AAL"),
		ErrorCodeValidation:        Validationf("bad as_of"),
		ErrorCodeUnavailable:       Unavailablef("object store down"),
		ErrorCodePanic:             PanicErrf("panic recovered"),
		ErrorCodeUnknown:           Internalf("artifact is not valid json"),
		ErrorCodeUnsupportedFormat: UnsupportedFormatf("no markdown rendition"),
		ErrorCodeDB:                New(ErrorCodeDB, "manifest read"),
	}
	for code, err := range cases {
		if !IsCode(err, code) {
			t.Errorf("%v: got code %v", err, CodeOf(err))
		}
	}
	if CodeOf(stderrs.New("x")) != ErrorCodeUnknown {
		t.Fatal("foreign errors should be unknown")
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Unavailablef("object store down")) {
		t.Fatal("unavailable should be retryable")
	}
	for _, err := range []error{NotFoundf("x"), Validationf("x"), stderrs.New("x")} {
		if Retryable(err) {
			t.Errorf("%v should not be retryable", err)
		}
	}
}
