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

// Tables encapsulates operations on the restaurant tables table.
type Tables struct {
	client  aws.DynamoDBAPI
	table   string
	nowFunc func() time.Time
}

func NewTables(client aws.DynamoDBAPI, table string) *Tables {
	return &Tables{
		client:  client,
		table:   table,
		nowFunc: time.Now,
	}
}

// TableFilter narrows List results.
type TableFilter struct {
	Status   string
	Location string
}

func (s *Tables) Create(ctx context.Context, t Table) error {
	now := s.nowFunc()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(table_id)"),
	})
	if err != nil {
		return fmt.Errorf("put table: %w", err)
	}
	return nil
}

// Get fetches a table by id. Returns (nil, nil) if not found.
func (s *Tables) Get(ctx context.Context, tableID string) (*Table, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.table,
		Key:       stringKey("table_id", tableID),
	})
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var t Table
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, fmt.Errorf("unmarshal table: %w", err)
	}
	return &t, nil
}

// List returns tables matching the filter, sorted by table number.
func (s *Tables) List(ctx context.Context, f TableFilter) ([]Table, error) {
	items, err := scanAll(ctx, s.client, s.table)
	if err != nil {
		return nil, err
	}
	var all []Table
	if err := attributevalue.UnmarshalListOfMaps(items, &all); err != nil {
		return nil, fmt.Errorf("unmarshal tables: %w", err)
	}

	tables := all[:0]
	for _, t := range all {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Location != "" && t.Location != f.Location {
			continue
		}
		tables = append(tables, t)
	}

	sort.Slice(tables, func(i, j int) bool {
		return tables[i].TableNumber < tables[j].TableNumber
	})
	return tables, nil
}

// SetStatus overwrites the table status; last writer wins. currentOrderID
// semantics: nil leaves the back-reference untouched, empty string clears it,
// anything else sets it.
func (s *Tables) SetStatus(ctx context.Context, tableID, status string, currentOrderID *string) error {
	now := s.nowFunc()
	expr := "SET #s = :s, updated_at = :ua"
	values := map[string]types.AttributeValue{
		":s":  &types.AttributeValueMemberS{Value: status},
		":ua": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339Nano)},
	}
	if currentOrderID != nil {
		if *currentOrderID == "" {
			expr += " REMOVE current_order_id"
		} else {
			expr = "SET #s = :s, updated_at = :ua, current_order_id = :oid"
			values[":oid"] = &types.AttributeValueMemberS{Value: *currentOrderID}
		}
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &s.table,
		Key:                       stringKey("table_id", tableID),
		UpdateExpression:          &expr,
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(table_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update table status: %w", err)
	}
	return nil
}

// Update overwrites an existing table record.
func (s *Tables) Update(ctx context.Context, t Table) error {
	t.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(table_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("put table: %w", err)
	}
	return nil
}

func (s *Tables) Delete(ctx context.Context, tableID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.table,
		Key:                 stringKey("table_id", tableID),
		ConditionExpression: awsString("attribute_exists(table_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete table: %w", err)
	}
	return nil
}
