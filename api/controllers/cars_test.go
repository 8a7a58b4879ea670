package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	carsvc "github.com/luxurydrive/backoffice/internal/cars"
)

type stubCarService struct {
	lastInput *carsvc.Input
}

func (s *stubCarService) List(context.Context) ([]carsvc.CarDTO, error) {
	return []carsvc.CarDTO{}, nil
}

func (s *stubCarService) Create(_ context.Context, input carsvc.Input) (*carsvc.CarDTO, error) {
	s.lastInput = &input
	return &carsvc.CarDTO{ID: 1, Name: input.Name}, nil
}

func (s *stubCarService) Update(_ context.Context, _ uint, input carsvc.Input) (*carsvc.CarDTO, error) {
	s.lastInput = &input
	return &carsvc.CarDTO{ID: 1, Name: input.Name}, nil
}

func (s *stubCarService) Delete(context.Context, uint) error {
	return nil
}

func carForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "car.png")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestCreateCarHandlerDecodesForm(t *testing.T) {
	svc := &stubCarService{}
	image := []byte("\x89PNG\r\n\x1a\n00000000")

	body, contentType := carForm(t, map[string]string{
		"name":          "Ghost",
		"brand":         "Rolls-Royce",
		"price_per_day": "450.50",
		"available":     "true",
		"description":   "Flagship sedan",
		"acceleration":  "4.8s",
		"consumption":   "15L/100km",
		"power":         "563hp",
	}, image)

	req := httptest.NewRequest(http.MethodPost, "/api/cars", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	CreateCar(svc, nil, 10<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput == nil {
		t.Fatal("service not called")
	}
	if svc.lastInput.Name != "Ghost" || svc.lastInput.Brand != "Rolls-Royce" {
		t.Fatalf("unexpected fields: %+v", svc.lastInput)
	}
	if svc.lastInput.PricePerDay.String() != "450.5" {
		t.Fatalf("unexpected price: %s", svc.lastInput.PricePerDay)
	}
	if svc.lastInput.Image == nil || len(svc.lastInput.Image.Data) != len(image) {
		t.Fatal("image payload not forwarded")
	}
}

func TestCreateCarHandlerBadPrice(t *testing.T) {
	svc := &stubCarService{}
	body, contentType := carForm(t, map[string]string{
		"name":          "Ghost",
		"brand":         "Rolls-Royce",
		"price_per_day": "lots",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cars", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	CreateCar(svc, nil, 10<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.lastInput != nil {
		t.Fatal("service must not be called on bad form")
	}
}

func TestCreateCarHandlerMissingImageStillDecodes(t *testing.T) {
	svc := &stubCarService{}
	body, contentType := carForm(t, map[string]string{
		"name":          "Ghost",
		"brand":         "Rolls-Royce",
		"price_per_day": "450",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cars", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	CreateCar(svc, nil, 10<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 from permissive stub, got %d", rec.Code)
	}
	if svc.lastInput == nil || svc.lastInput.Image != nil {
		t.Fatal("expected nil image forwarded to the service")
	}
}
