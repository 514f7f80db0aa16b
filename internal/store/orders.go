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

// Orders encapsulates operations on the orders table.
type Orders struct {
	client  aws.DynamoDBAPI
	table   string
	nowFunc func() time.Time
}

// NewOrders creates a new orders store.
func NewOrders(client aws.DynamoDBAPI, table string) *Orders {
	return &Orders{
		client:  client,
		table:   table,
		nowFunc: time.Now,
	}
}

// OrderFilter narrows List results. Zero values mean "no filter".
type OrderFilter struct {
	Status      string
	OrderType   string
	TableNumber int
	CustomerID  string
}

// Create persists a new order. The order id must be set by the caller; the
// guard is on order_id only — the human-readable order number is a plain
// attribute and duplicates are not rejected here.
func (s *Orders) Create(ctx context.Context, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// Get fetches an order by id. Returns (nil, nil) if not found.
func (s *Orders) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.table,
		Key:       stringKey("order_id", orderID),
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// List returns orders matching the filter, newest first.
func (s *Orders) List(ctx context.Context, f OrderFilter) ([]Order, error) {
	items, err := scanAll(ctx, s.client, s.table)
	if err != nil {
		return nil, err
	}
	var all []Order
	if err := attributevalue.UnmarshalListOfMaps(items, &all); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}

	orders := all[:0]
	for _, o := range all {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.OrderType != "" && o.OrderType != f.OrderType {
			continue
		}
		if f.TableNumber != 0 && o.TableNumber != f.TableNumber {
			continue
		}
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		orders = append(orders, o)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// SetStatus overwrites the order status. Every enumerated value is accepted
// from every other value; there is no transition table. Returns ErrNotFound
// if the order does not exist.
func (s *Orders) SetStatus(ctx context.Context, orderID, status string) error {
	now := s.nowFunc()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.table,
		Key:              stringKey("order_id", orderID),
		UpdateExpression: awsString("SET #s = :s, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s":  &types.AttributeValueMemberS{Value: status},
			":ua": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: awsString("attribute_exists(order_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// SetPayment overwrites the payment fields. No check against order status.
func (s *Orders) SetPayment(ctx context.Context, orderID, paymentStatus, paymentMethod string) error {
	now := s.nowFunc()
	expr := "SET payment_status = :ps, updated_at = :ua"
	values := map[string]types.AttributeValue{
		":ps": &types.AttributeValueMemberS{Value: paymentStatus},
		":ua": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339Nano)},
	}
	if paymentMethod != "" {
		expr += ", payment_method = :pm"
		values[":pm"] = &types.AttributeValueMemberS{Value: paymentMethod}
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &s.table,
		Key:                       stringKey("order_id", orderID),
		UpdateExpression:          &expr,
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(order_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update order payment: %w", err)
	}
	return nil
}
