package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/tableside/pos-api/internal/aws"
)

// Menu encapsulates operations on the menu items table.
type Menu struct {
	client  aws.DynamoDBAPI
	table   string
	nowFunc func() time.Time
}

func NewMenu(client aws.DynamoDBAPI, table string) *Menu {
	return &Menu{
		client:  client,
		table:   table,
		nowFunc: time.Now,
	}
}

// MenuFilter narrows List results. Nil/empty means "no filter".
type MenuFilter struct {
	Category  string
	Available *bool
}

func (s *Menu) Create(ctx context.Context, item MenuItem) error {
	now := s.nowFunc()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal menu item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                av,
		ConditionExpression: awsString("attribute_not_exists(menu_item_id)"),
	})
	if err != nil {
		return fmt.Errorf("put menu item: %w", err)
	}
	return nil
}

// Get fetches a menu item by id. Returns (nil, nil) if not found.
func (s *Menu) Get(ctx context.Context, menuItemID string) (*MenuItem, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.table,
		Key:       stringKey("menu_item_id", menuItemID),
	})
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var m MenuItem
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, fmt.Errorf("unmarshal menu item: %w", err)
	}
	return &m, nil
}

// List returns menu items matching the filter, sorted by category then name.
func (s *Menu) List(ctx context.Context, f MenuFilter) ([]MenuItem, error) {
	avs, err := scanAll(ctx, s.client, s.table)
	if err != nil {
		return nil, err
	}
	var all []MenuItem
	if err := attributevalue.UnmarshalListOfMaps(avs, &all); err != nil {
		return nil, fmt.Errorf("unmarshal menu items: %w", err)
	}

	items := all[:0]
	for _, m := range all {
		if f.Category != "" && m.Category != f.Category {
			continue
		}
		if f.Available != nil && m.Available != *f.Available {
			continue
		}
		items = append(items, m)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Update overwrites an existing menu item.
func (s *Menu) Update(ctx context.Context, item MenuItem) error {
	item.UpdatedAt = s.nowFunc()
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal menu item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                av,
		ConditionExpression: awsString("attribute_exists(menu_item_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("put menu item: %w", err)
	}
	return nil
}

func (s *Menu) Delete(ctx context.Context, menuItemID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.table,
		Key:                 stringKey("menu_item_id", menuItemID),
		ConditionExpression: awsString("attribute_exists(menu_item_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}
