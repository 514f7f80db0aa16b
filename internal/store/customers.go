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

// Customers encapsulates operations on the customers table.
type Customers struct {
	client  aws.DynamoDBAPI
	table   string
	nowFunc func() time.Time
}

func NewCustomers(client aws.DynamoDBAPI, table string) *Customers {
	return &Customers{
		client:  client,
		table:   table,
		nowFunc: time.Now,
	}
}

func (s *Customers) Create(ctx context.Context, customer Customer) error {
	now := s.nowFunc()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now

	item, err := attributevalue.MarshalMap(customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(customer_id)"),
	})
	if err != nil {
		return fmt.Errorf("put customer: %w", err)
	}
	return nil
}

// Get fetches a customer by id. Returns (nil, nil) if not found.
func (s *Customers) Get(ctx context.Context, customerID string) (*Customer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.table,
		Key:       stringKey("customer_id", customerID),
	})
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Customer
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	return &c, nil
}

// List returns all customers, newest first.
func (s *Customers) List(ctx context.Context) ([]Customer, error) {
	items, err := scanAll(ctx, s.client, s.table)
	if err != nil {
		return nil, err
	}
	var customers []Customer
	if err := attributevalue.UnmarshalListOfMaps(items, &customers); err != nil {
		return nil, fmt.Errorf("unmarshal customers: %w", err)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
	return customers, nil
}

// Update overwrites an existing customer record.
func (s *Customers) Update(ctx context.Context, customer Customer) error {
	customer.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(customer_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("put customer: %w", err)
	}
	return nil
}

func (s *Customers) Delete(ctx context.Context, customerID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.table,
		Key:                 stringKey("customer_id", customerID),
		ConditionExpression: awsString("attribute_exists(customer_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// ApplyOrderAccrual atomically bumps the customer's counters for one created
// order: totalOrders by 1, totalSpent by the order total, loyaltyPoints by
// floor(total). This is a single update expression, but it is a separate
// write from the order insert itself.
func (s *Customers) ApplyOrderAccrual(ctx context.Context, customerID string, total float64) error {
	now := s.nowFunc()
	points := int(total)

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.table,
		Key:       stringKey("customer_id", customerID),
		UpdateExpression: awsString(
			"SET total_orders = if_not_exists(total_orders, :zero) + :one, " +
				"total_spent = if_not_exists(total_spent, :zero) + :spent, " +
				"loyalty_points = if_not_exists(loyalty_points, :zero) + :points, " +
				"updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero":   &types.AttributeValueMemberN{Value: "0"},
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":spent":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", total)},
			":points": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", points)},
			":ua":     &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: awsString("attribute_exists(customer_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("apply order accrual: %w", err)
	}
	return nil
}
