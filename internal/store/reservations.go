package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tableside/pos-api/internal/aws"
)

// Reservations encapsulates operations on the reservations table.
type Reservations struct {
	client  aws.DynamoDBAPI
	table   string
	nowFunc func() time.Time
}

func NewReservations(client aws.DynamoDBAPI, table string) *Reservations {
	return &Reservations{
		client:  client,
		table:   table,
		nowFunc: time.Now,
	}
}

// ReservationFilter narrows List results. Date, when non-zero, matches the
// calendar day [Date, Date+24h).
type ReservationFilter struct {
	Status string
	Date   time.Time
}

func (s *Reservations) Create(ctx context.Context, r Reservation) error {
	now := s.nowFunc()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("marshal reservation: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(reservation_id)"),
	})
	if err != nil {
		return fmt.Errorf("put reservation: %w", err)
	}
	return nil
}

// Get fetches a reservation by id. Returns (nil, nil) if not found.
func (s *Reservations) Get(ctx context.Context, reservationID string) (*Reservation, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.table,
		Key:       stringKey("reservation_id", reservationID),
	})
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r Reservation
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal reservation: %w", err)
	}
	return &r, nil
}

// List returns reservations matching the filter, soonest first.
func (s *Reservations) List(ctx context.Context, f ReservationFilter) ([]Reservation, error) {
	items, err := scanAll(ctx, s.client, s.table)
	if err != nil {
		return nil, err
	}
	var all []Reservation
	if err := attributevalue.UnmarshalListOfMaps(items, &all); err != nil {
		return nil, fmt.Errorf("unmarshal reservations: %w", err)
	}

	reservations := all[:0]
	for _, r := range all {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if !f.Date.IsZero() {
			dayStart := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
			dayEnd := dayStart.Add(24 * time.Hour)
			if r.ReservationDate.Before(dayStart) || !r.ReservationDate.Before(dayEnd) {
				continue
			}
		}
		reservations = append(reservations, r)
	}

	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].ReservationDate.Before(reservations[j].ReservationDate)
	})
	return reservations, nil
}

// FindConflict returns a reservation for the same table at the exact same
// timestamp whose status still claims the table (pending, confirmed or
// seated), or (nil, nil) when the slot is free. This is a read, not a lock:
// two concurrent creators can both see a free slot.
// TODO: back this with a table_id/reservation_date GSI query instead of a
// scan once reservation volume warrants it.
func (s *Reservations) FindConflict(ctx context.Context, tableID string, date time.Time) (*Reservation, error) {
	all, err := s.List(ctx, ReservationFilter{})
	if err != nil {
		return nil, err
	}
	for i, r := range all {
		if r.TableID != tableID || !r.ReservationDate.Equal(date) {
			continue
		}
		switch r.Status {
		case ReservationPending, ReservationConfirmed, ReservationSeated:
			return &all[i], nil
		}
	}
	return nil, nil
}

// SetStatus overwrites the reservation status unconditionally.
func (s *Reservations) SetStatus(ctx context.Context, reservationID, status string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.table,
		Key:              stringKey("reservation_id", reservationID),
		UpdateExpression: awsString("SET #s = :s, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s":  &types.AttributeValueMemberS{Value: status},
			":ua": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: awsString("attribute_exists(reservation_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update reservation status: %w", err)
	}
	return nil
}

func (s *Reservations) Delete(ctx context.Context, reservationID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.table,
		Key:                 stringKey("reservation_id", reservationID),
		ConditionExpression: awsString("attribute_exists(reservation_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}
