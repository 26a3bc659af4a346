package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"storydl/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrFetch, "assembler", "chapter text", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"assembler", "chapter text", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected fetch marker by default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrNotFound, "resolver", "resolve", "no digits", nil), services.KindUnresolvable},
		{services.Wrap(services.ErrFetch, "assembler", "story", "", errors.New("503")), services.KindFetch},
		{services.Wrap(services.ErrMalformedResponse, "platform", "decode", "", nil), services.KindMalformed},
		{services.Wrap(services.ErrStorage, "fileutil", "rename", "", nil), services.KindStorage},
		{services.Wrap(services.ErrConfiguration, "config", "", "bad", nil), services.KindConfig},
		{fmt.Errorf("run: %w", context.Canceled), services.KindCanceled},
		{
			services.Wrap(services.ErrFetch, "assembler", "chapter text", "",
				services.Wrap(services.ErrFetch, "platform", "get", "", fmt.Errorf("request: %w", context.Canceled))),
			services.KindCanceled,
		},
		{errors.New("other"), services.KindFailed},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
