package store

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/tableside/pos-api/internal/store/storetest"
)

func newReservationsStore(mock *storetest.MockDynamo) *Reservations {
	s := NewReservations(mock, "reservations")
	s.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func seedReservation(t *testing.T, mock *storetest.MockDynamo, r Reservation) {
	t.Helper()
	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		t.Fatalf("marshal reservation: %v", err)
	}
	if err := mock.Seed("reservations", item); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
}

func TestReservationsFindConflict(t *testing.T) {
	slot := time.Date(2025, 6, 15, 19, 0, 0, 0, time.UTC)

	cases := map[string]struct {
		existing     Reservation
		wantConflict bool
	}{
		"pending same slot": {
			existing:     Reservation{ReservationID: "res-1", TableID: "tbl-1", ReservationDate: slot, Status: ReservationPending},
			wantConflict: true,
		},
		"confirmed same slot": {
			existing:     Reservation{ReservationID: "res-1", TableID: "tbl-1", ReservationDate: slot, Status: ReservationConfirmed},
			wantConflict: true,
		},
		"seated same slot": {
			existing:     Reservation{ReservationID: "res-1", TableID: "tbl-1", ReservationDate: slot, Status: ReservationSeated},
			wantConflict: true,
		},
		"cancelled same slot": {
			existing:     Reservation{ReservationID: "res-1", TableID: "tbl-1", ReservationDate: slot, Status: ReservationCancelled},
			wantConflict: false,
		},
		"completed same slot": {
			existing:     Reservation{ReservationID: "res-1", TableID: "tbl-1", ReservationDate: slot, Status: ReservationCompleted},
			wantConflict: false,
		},
		"other table": {
			existing:     Reservation{ReservationID: "res-1", TableID: "tbl-2", ReservationDate: slot, Status: ReservationConfirmed},
			wantConflict: false,
		},
		"other time": {
			existing:     Reservation{ReservationID: "res-1", TableID: "tbl-1", ReservationDate: slot.Add(time.Hour), Status: ReservationConfirmed},
			wantConflict: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			mock := storetest.NewMockDynamo()
			s := newReservationsStore(mock)
			seedReservation(t, mock, tc.existing)

			got, err := s.FindConflict(context.Background(), "tbl-1", slot)
			if err != nil {
				t.Fatalf("find conflict: %v", err)
			}
			if (got != nil) != tc.wantConflict {
				t.Fatalf("conflict = %v, want %v", got != nil, tc.wantConflict)
			}
		})
	}
}

func TestReservationsListByDay(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newReservationsStore(mock)

	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	seedReservation(t, mock, Reservation{ReservationID: "res-1", TableID: "tbl-1", ReservationDate: day.Add(19 * time.Hour), Status: ReservationPending})
	seedReservation(t, mock, Reservation{ReservationID: "res-2", TableID: "tbl-2", ReservationDate: day.Add(12 * time.Hour), Status: ReservationPending})
	seedReservation(t, mock, Reservation{ReservationID: "res-3", TableID: "tbl-1", ReservationDate: day.Add(25 * time.Hour), Status: ReservationPending})

	got, err := s.List(context.Background(), ReservationFilter{Date: day})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Soonest first.
	if got[0].ReservationID != "res-2" || got[1].ReservationID != "res-1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ReservationID, got[1].ReservationID)
	}
}

func TestReservationsSetStatusMissing(t *testing.T) {
	s := newReservationsStore(storetest.NewMockDynamo())

	if err := s.SetStatus(context.Background(), "nope", ReservationSeated); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReservationsDelete(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newReservationsStore(mock)
	seedReservation(t, mock, Reservation{ReservationID: "res-1", TableID: "tbl-1", Status: ReservationPending})

	if err := s.Delete(context.Background(), "res-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(context.Background(), "res-1"); err != ErrNotFound {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
