package repository

import (
	"context"
	"fmt"
	"strconv"

	"bizdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SequenceDynamoRepository hands out business key numbers from counter
// documents.
//
// Table requirements:
//   - PK: name (string)
//
// Each sequence is one item named seq#<name> with a numeric value attribute.
type SequenceDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.ISequenceGenerator = (*SequenceDynamoRepository)(nil)

func NewSequenceDynamoRepository(ddb DynamoDBAPI, tables Tables) *SequenceDynamoRepository {
	return &SequenceDynamoRepository{ddb: ddb, tableName: tables.Counters}
}

// Next atomically increments the counter and returns the new value. A missing
// counter starts at zero, so the first call returns 1.
func (r *SequenceDynamoRepository) Next(ctx context.Context, name string) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: "seq#" + name},
		},
		UpdateExpression:          aws.String("ADD #value :one"),
		ExpressionAttributeNames:  map[string]string{"#value": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}

	v, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("sequence %s: counter value missing from response", name)
	}
	return strconv.ParseInt(v.Value, 10, 64)
}
