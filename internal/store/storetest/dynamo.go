// Package storetest provides a small in-memory DynamoDB mock for unit tests.
// It understands only the expressions the stores actually issue:
// attribute_exists/attribute_not_exists conditions, SET assignments,
// if_not_exists(x, :zero) + :inc counter bumps, and a trailing REMOVE clause.
// NOTE: intentionally minimal and not production-grade.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// key attributes the mock knows how to find inside a put item.
// customer_id and table_id come last because other entities (e.g.
// reservations, orders) carry them as plain foreign-key attributes.
var knownKeys = []string{
	"order_id", "reservation_id", "menu_item_id",
	"item_id", "user_id", "table_id", "customer_id",
}

// MockDynamo stores items per table: table -> pkValue -> item map.
type MockDynamo struct {
	mu     sync.Mutex
	Tables map[string]map[string]map[string]types.AttributeValue
}

func NewMockDynamo() *MockDynamo {
	return &MockDynamo{
		Tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *MockDynamo) ensureTable(tbl string) {
	if _, ok := m.Tables[tbl]; !ok {
		m.Tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

func itemPK(item map[string]types.AttributeValue) (string, error) {
	for _, k := range knownKeys {
		if v, ok := item[k]; ok {
			return v.(*types.AttributeValueMemberS).Value, nil
		}
	}
	return "", errors.New("no known primary key in item")
}

func keyPK(key map[string]types.AttributeValue) (string, error) {
	for _, v := range key {
		return v.(*types.AttributeValueMemberS).Value, nil
	}
	return "", errors.New("empty key")
}

// Seed inserts an item directly, bypassing conditions.
func (m *MockDynamo) Seed(table string, item map[string]types.AttributeValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureTable(table)
	pk, err := itemPK(item)
	if err != nil {
		return err
	}
	m.Tables[table][pk] = item
	return nil
}

// Item returns the raw stored item, or nil.
func (m *MockDynamo) Item(table, pk string) map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tables[table][pk]
}

var conditionRe = regexp.MustCompile(`^attribute_(not_)?exists\((\w+)\)$`)

func (m *MockDynamo) checkCondition(table, pk string, cond *string) error {
	if cond == nil {
		return nil
	}
	match := conditionRe.FindStringSubmatch(*cond)
	if match == nil {
		return fmt.Errorf("mock: unsupported condition %q", *cond)
	}
	_, exists := m.Tables[table][pk]
	wantAbsent := match[1] == "not_"
	if exists == wantAbsent {
		return &types.ConditionalCheckFailedException{}
	}
	return nil
}

func (m *MockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := itemPK(params.Item)
	if err != nil {
		return nil, err
	}
	if err := m.checkCondition(table, pk, params.ConditionExpression); err != nil {
		return nil, err
	}
	m.Tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *MockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := keyPK(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.Tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *MockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := keyPK(params.Key)
	if err != nil {
		return nil, err
	}
	if err := m.checkCondition(table, pk, params.ConditionExpression); err != nil {
		return nil, err
	}
	delete(m.Tables[table], pk)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *MockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	var items []map[string]types.AttributeValue
	for _, it := range m.Tables[table] {
		items = append(items, it)
	}
	count := int32(len(items))
	return &dyn.ScanOutput{Items: items, Count: count}, nil
}

var incrementRe = regexp.MustCompile(`^if_not_exists\((\w+), (:\w+)\) \+ (:\w+)$`)

func (m *MockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := keyPK(params.Key)
	if err != nil {
		return nil, err
	}
	if err := m.checkCondition(table, pk, params.ConditionExpression); err != nil {
		return nil, err
	}
	item, ok := m.Tables[table][pk]
	if !ok {
		// no condition guarded this update; treat as upsert like DynamoDB does
		item = map[string]types.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
	}

	expr := *params.UpdateExpression
	var removePart string
	if idx := strings.Index(expr, " REMOVE "); idx >= 0 {
		removePart = expr[idx+len(" REMOVE "):]
		expr = expr[:idx]
	}
	expr = strings.TrimPrefix(expr, "SET ")

	for _, clause := range splitClauses(expr) {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("mock: unsupported update clause %q", clause)
		}
		target := resolveName(parts[0], params.ExpressionAttributeNames)
		rhs := parts[1]

		if match := incrementRe.FindStringSubmatch(rhs); match != nil {
			current := 0.0
			if cur, ok := item[match[1]].(*types.AttributeValueMemberN); ok {
				current, _ = strconv.ParseFloat(cur.Value, 64)
			}
			incAttr, ok := params.ExpressionAttributeValues[match[3]].(*types.AttributeValueMemberN)
			if !ok {
				return nil, fmt.Errorf("mock: increment value %s not numeric", match[3])
			}
			inc, _ := strconv.ParseFloat(incAttr.Value, 64)
			item[target] = &types.AttributeValueMemberN{
				Value: strconv.FormatFloat(current+inc, 'f', -1, 64),
			}
			continue
		}

		val, ok := params.ExpressionAttributeValues[rhs]
		if !ok {
			return nil, fmt.Errorf("mock: unsupported update rhs %q", rhs)
		}
		item[target] = val
	}

	if removePart != "" {
		for _, attr := range strings.Split(removePart, ", ") {
			delete(item, resolveName(attr, params.ExpressionAttributeNames))
		}
	}

	m.Tables[table][pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

// splitClauses splits a SET expression on ", " at the top level only, so
// commas inside function calls like if_not_exists(x, :zero) stay intact.
func splitClauses(expr string) []string {
	var clauses []string
	depth, start := 0, 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 && i+1 < len(expr) && expr[i+1] == ' ' {
				clauses = append(clauses, expr[start:i])
				i++
				start = i + 1
			}
		}
	}
	return append(clauses, expr[start:])
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
	}
	return name
}
