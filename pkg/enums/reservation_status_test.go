package enums

import "testing"

func TestReservationStatusAvailability(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status   ReservationStatus
		occupies bool
		releases bool
	}{
		{ReservationStatusPending, true, false},
		{ReservationStatusActive, true, false},
		{ReservationStatusCompleted, false, true},
		{ReservationStatusCanceled, false, true},
		{ReservationStatus("archived"), false, false},
		{ReservationStatus(""), false, false},
	}
	for _, tc := range cases {
		if tc.status.Occupies() != tc.occupies {
			t.Fatalf("%q: Occupies mismatch", tc.status)
		}
		if tc.status.Releases() != tc.releases {
			t.Fatalf("%q: Releases mismatch", tc.status)
		}
	}
}

func TestReservationStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, status := range validReservationStatuses {
		if !status.IsValid() {
			t.Fatalf("%q should be valid", status)
		}
	}
	if ReservationStatus("archived").IsValid() {
		t.Fatal("unknown status should not be valid")
	}
}
