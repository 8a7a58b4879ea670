package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
)

type testPayload struct {
	Name   string `json:"name" validate:"required"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Nadia","rating":4}`))
	var payload testPayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Name != "Nadia" || payload.Rating != 4 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Nadia","bogus":true}`))
	var payload testPayload
	err := DecodeJSONBody(req, &payload)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"rating":9}`))
	var payload testPayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected detail map, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("expected name error, got %v", details)
	}
	if details["rating"] != "must be at most 5" {
		t.Fatalf("expected rating error, got %v", details)
	}
}
