// Package store holds one DynamoDB-backed store per entity. Every store is a
// thin struct over the DynamoDBAPI client: Get returns (nil, nil) when the
// item is absent, list operations scan the table and filter in application
// code, and field updates go through update expressions. Multi-entity
// sequences (order insert then customer accrual, reservation conflict check
// then insert) are separate calls with no shared transaction; interleaving
// from concurrent requests is accepted at this scale.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/tableside/pos-api/internal/aws"
)

// ErrNotFound indicates the referenced item does not exist.
var ErrNotFound = errors.New("item not found")

// scanAll pages through a full table scan. Single-restaurant data sets fit
// comfortably in one or two pages.
func scanAll(ctx context.Context, client aws.DynamoDBAPI, table string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var start map[string]types.AttributeValue
	for {
		out, err := client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &table,
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}
	return items, nil
}

// isConditionalCheckFailed reports whether err is a failed ConditionExpression.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func stringKey(attr, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attr: &types.AttributeValueMemberS{Value: value},
	}
}

func awsString(s string) *string { return &s }
