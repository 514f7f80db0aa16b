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

// Inventory encapsulates operations on the inventory table.
type Inventory struct {
	client  aws.DynamoDBAPI
	table   string
	nowFunc func() time.Time
}

func NewInventory(client aws.DynamoDBAPI, table string) *Inventory {
	return &Inventory{
		client:  client,
		table:   table,
		nowFunc: time.Now,
	}
}

// InventoryFilter narrows List results. LowStock keeps only items at or
// below their reorder level.
type InventoryFilter struct {
	Category string
	LowStock bool
}

func (s *Inventory) Create(ctx context.Context, item InventoryItem) error {
	now := s.nowFunc()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.LastRestocked.IsZero() {
		item.LastRestocked = now
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal inventory item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                av,
		ConditionExpression: awsString("attribute_not_exists(item_id)"),
	})
	if err != nil {
		return fmt.Errorf("put inventory item: %w", err)
	}
	return nil
}

// Get fetches an inventory item by id. Returns (nil, nil) if not found.
func (s *Inventory) Get(ctx context.Context, itemID string) (*InventoryItem, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.table,
		Key:       stringKey("item_id", itemID),
	})
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it InventoryItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal inventory item: %w", err)
	}
	return &it, nil
}

// List returns inventory items matching the filter, sorted by item name.
func (s *Inventory) List(ctx context.Context, f InventoryFilter) ([]InventoryItem, error) {
	avs, err := scanAll(ctx, s.client, s.table)
	if err != nil {
		return nil, err
	}
	var all []InventoryItem
	if err := attributevalue.UnmarshalListOfMaps(avs, &all); err != nil {
		return nil, fmt.Errorf("unmarshal inventory items: %w", err)
	}

	items := all[:0]
	for _, it := range all {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.LowStock && it.Quantity > it.ReorderLevel {
			continue
		}
		items = append(items, it)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ItemName < items[j].ItemName
	})
	return items, nil
}

// Update overwrites an existing inventory item.
func (s *Inventory) Update(ctx context.Context, item InventoryItem) error {
	item.UpdatedAt = s.nowFunc()
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal inventory item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                av,
		ConditionExpression: awsString("attribute_exists(item_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("put inventory item: %w", err)
	}
	return nil
}

// Restock atomically bumps the quantity and stamps lastRestocked.
func (s *Inventory) Restock(ctx context.Context, itemID string, quantity float64) error {
	now := s.nowFunc().UTC().Format(time.RFC3339Nano)
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.table,
		Key:       stringKey("item_id", itemID),
		UpdateExpression: awsString(
			"SET quantity = if_not_exists(quantity, :zero) + :q, last_restocked = :ua, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":q":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", quantity)},
			":ua":   &types.AttributeValueMemberS{Value: now},
		},
		ConditionExpression: awsString("attribute_exists(item_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("restock inventory item: %w", err)
	}
	return nil
}

func (s *Inventory) Delete(ctx context.Context, itemID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.table,
		Key:                 stringKey("item_id", itemID),
		ConditionExpression: awsString("attribute_exists(item_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}
