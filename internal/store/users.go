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

// Users encapsulates operations on the staff users table.
type Users struct {
	client  aws.DynamoDBAPI
	table   string
	nowFunc func() time.Time
}

func NewUsers(client aws.DynamoDBAPI, table string) *Users {
	return &Users{
		client:  client,
		table:   table,
		nowFunc: time.Now,
	}
}

// UserFilter narrows List results.
type UserFilter struct {
	Role   string
	Active *bool
}

func (s *Users) Create(ctx context.Context, u User) error {
	now := s.nowFunc()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(user_id)"),
	})
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// Get fetches a user by id. Returns (nil, nil) if not found.
func (s *Users) Get(ctx context.Context, userID string) (*User, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.table,
		Key:       stringKey("user_id", userID),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var u User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// GetActiveByUsername looks up an active user by username for login.
// Returns (nil, nil) when no such user exists.
func (s *Users) GetActiveByUsername(ctx context.Context, username string) (*User, error) {
	users, err := s.List(ctx, UserFilter{})
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		if u.Username == username && u.Active {
			return &users[i], nil
		}
	}
	return nil, nil
}

// List returns users matching the filter, newest first.
func (s *Users) List(ctx context.Context, f UserFilter) ([]User, error) {
	items, err := scanAll(ctx, s.client, s.table)
	if err != nil {
		return nil, err
	}
	var all []User
	if err := attributevalue.UnmarshalListOfMaps(items, &all); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}

	users := all[:0]
	for _, u := range all {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// Update overwrites an existing user record.
func (s *Users) Update(ctx context.Context, u User) error {
	u.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(user_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (s *Users) Delete(ctx context.Context, userID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.table,
		Key:                 stringKey("user_id", userID),
		ConditionExpression: awsString("attribute_exists(user_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
