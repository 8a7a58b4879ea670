package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/luxurydrive/backoffice/api/responses"
	carsvc "github.com/luxurydrive/backoffice/internal/cars"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
	"github.com/luxurydrive/backoffice/pkg/logger"
)

// formMemoryLimit caps how much of a multipart body is buffered in memory
// before spilling to disk.
const formMemoryLimit = 8 << 20

func ListCars(svc carsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cars, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cars)
	}
}

func CreateCar(svc carsvc.Service, logg *logger.Logger, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeCarForm(r, maxUploadBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		car, err := svc.Create(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, car)
	}
}

func UpdateCar(svc carsvc.Service, logg *logger.Logger, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeCarForm(r, maxUploadBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		car, err := svc.Update(r.Context(), id, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, car)
	}
}

func DeleteCar(svc carsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// decodeCarForm parses the multipart car form. The image part is optional
// here; the service decides whether one is required.
func decodeCarForm(r *http.Request, maxUploadBytes int64) (*carsvc.Input, error) {
	// Leave headroom for the text fields and multipart framing.
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes+formMemoryLimit)
	if err := r.ParseMultipartForm(formMemoryLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price_per_day")))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_day must be a decimal number")
	}

	available := true
	if raw := strings.TrimSpace(r.FormValue("available")); raw != "" {
		available, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "available must be a boolean")
		}
	}

	input := &carsvc.Input{
		Name:         strings.TrimSpace(r.FormValue("name")),
		Brand:        strings.TrimSpace(r.FormValue("brand")),
		PricePerDay:  price,
		Available:    available,
		Description:  strings.TrimSpace(r.FormValue("description")),
		Acceleration: strings.TrimSpace(r.FormValue("acceleration")),
		Consumption:  strings.TrimSpace(r.FormValue("consumption")),
		Power:        strings.TrimSpace(r.FormValue("power")),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
		if readErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, readErr, "reading image upload")
		}
		input.Image = &carsvc.ImageFile{Data: data, Filename: header.Filename}
	case errors.Is(err, http.ErrMissingFile):
		// No image part; create will reject, update keeps the current one.
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image upload")
	}

	return input, nil
}
