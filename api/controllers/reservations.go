package controllers

import (
	"net/http"
	"time"

	"github.com/luxurydrive/backoffice/api/responses"
	"github.com/luxurydrive/backoffice/api/validators"
	reservationsvc "github.com/luxurydrive/backoffice/internal/reservations"
	"github.com/luxurydrive/backoffice/pkg/enums"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
	"github.com/luxurydrive/backoffice/pkg/logger"
)

type reservationRequest struct {
	CustomerID uint   `json:"customer_id" validate:"required"`
	CarID      uint   `json:"car_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	Status     string `json:"status"`
}

func (req reservationRequest) toInput() (reservationsvc.Input, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return reservationsvc.Input{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return reservationsvc.Input{}, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be formatted YYYY-MM-DD")
	}
	return reservationsvc.Input{
		CustomerID: req.CustomerID,
		CarID:      req.CarID,
		StartDate:  start,
		EndDate:    end,
		Status:     enums.ReservationStatus(req.Status),
	}, nil
}

func ListReservations(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func CreateReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reservation)
	}
}

func UpdateReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}

func DeleteReservation(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
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
