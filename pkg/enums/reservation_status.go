package enums

// ReservationStatus tracks where a reservation sits in its lifecycle.
//
// The set below is what the API documents, but the column is free-form text:
// unknown values are stored verbatim and leave car availability untouched, so
// no Parse helper rejects them.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCanceled  ReservationStatus = "canceled"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusActive,
	ReservationStatusCompleted,
	ReservationStatusCanceled,
}

// String implements fmt.Stringer.
func (s ReservationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is one of the known statuses.
func (s ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Occupies reports whether the status keeps the car unavailable.
func (s ReservationStatus) Occupies() bool {
	return s == ReservationStatusPending || s == ReservationStatusActive
}

// Releases reports whether the status frees the car.
func (s ReservationStatus) Releases() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCanceled
}
