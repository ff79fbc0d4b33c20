package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"bizdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of *dynamodb.Client the repositories use.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// Tables names every table the repositories touch.
type Tables struct {
	Orders    string
	Estimates string
	Payments  string
	Counters  string
	// CatalogPrefix is prepended to each catalog collection name.
	CatalogPrefix string
}

func (t Tables) Catalog(collection string) string {
	return t.CatalogPrefix + collection
}

const orderIDIndex = "order_id-index"

// Key claims live in the counters table next to the sequence documents. A claim
// is written in the same transaction as the document owning the key, so two
// documents can never share a business key.
func claimKey(collection, key string) string {
	return "key#" + collection + "#" + key
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func putClaim(table, collection, key, owner string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(table),
			Item: map[string]types.AttributeValue{
				"name":  &types.AttributeValueMemberS{Value: claimKey(collection, key)},
				"owner": &types.AttributeValueMemberS{Value: owner},
			},
			ConditionExpression:      aws.String("attribute_not_exists(#name)"),
			ExpressionAttributeNames: map[string]string{"#name": "name"},
		},
	}
}

// claimOwner returns the internal id that holds key, or "" when the key is not
// claimed. Claims are read strongly consistent, so a document is found by its
// business key as soon as the transaction that created it has committed.
func claimOwner(ctx context.Context, ddb DynamoDBAPI, table, collection, key string) (string, error) {
	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: claimKey(collection, key)},
		},
		ConsistentRead:           aws.Bool(true),
		ProjectionExpression:     aws.String("#owner"),
		ExpressionAttributeNames: map[string]string{"#owner": "owner"},
	})
	if err != nil {
		return "", err
	}
	owner, ok := out.Item["owner"].(*types.AttributeValueMemberS)
	if !ok {
		return "", nil
	}
	return owner.Value, nil
}

func deleteClaim(table, collection, key string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(table),
			Key: map[string]types.AttributeValue{
				"name": &types.AttributeValueMemberS{Value: claimKey(collection, key)},
			},
		},
	}
}

// cancelledAt returns the positions of the transaction items whose condition
// failed, or nil when err is not a transaction cancellation.
func cancelledAt(err error) []int {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil
	}
	var failed []int
	for i, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			failed = append(failed, i)
		}
	}
	return failed
}

// txError maps a cancelled transaction onto the repository sentinel errors.
// A failure on any of the positions in dupAt is a business key collision;
// any other condition failure is ErrConditionFailed.
func txError(err error, dupAt ...int) error {
	failed := cancelledAt(err)
	if failed == nil {
		return err
	}
	for _, f := range failed {
		for _, d := range dupAt {
			if f == d {
				return interfaces.ErrDuplicateKey
			}
		}
	}
	return interfaces.ErrConditionFailed
}

func failedAt(err error, pos int) bool {
	for _, f := range cancelledAt(err) {
		if f == pos {
			return true
		}
	}
	return false
}

func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func numberValue(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}
