package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CatalogDynamoRepository persists one catalog collection in DynamoDB.
// Records are marshalled straight from their dynamodbav tags.
//
// Table requirements:
//   - PK: id (string)
type CatalogDynamoRepository[T entities.Record[T]] struct {
	ddb          DynamoDBAPI
	tableName    string
	countersName string
	collection   string
}

var _ interfaces.ICatalogRepository[entities.Customer] = (*CatalogDynamoRepository[entities.Customer])(nil)

func NewCatalogDynamoRepository[T entities.Record[T]](ddb DynamoDBAPI, tables Tables) *CatalogDynamoRepository[T] {
	var zero T
	collection := zero.Kind().Collection
	return &CatalogDynamoRepository[T]{
		ddb:          ddb,
		tableName:    tables.Catalog(collection),
		countersName: tables.Counters,
		collection:   collection,
	}
}

func (r *CatalogDynamoRepository[T]) put(rec T, cond string) (*types.Put, error) {
	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, err
	}
	return &types.Put{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String(cond),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	}, nil
}

func (r *CatalogDynamoRepository[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	put, err := r.put(rec, "attribute_not_exists(#id)")
	if err != nil {
		return zero, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			putClaim(r.countersName, r.collection, rec.UniqueKey(), rec.RecordID()),
		},
	})
	if err != nil {
		return zero, txError(err, 0, 1)
	}
	return rec, nil
}

func (r *CatalogDynamoRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return zero, err
	}
	if len(out.Item) == 0 {
		return zero, nil
	}
	var rec T
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return zero, err
	}
	return rec, nil
}

func (r *CatalogDynamoRepository[T]) List(ctx context.Context) ([]T, error) {
	records := []T{}
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UniqueKey() < records[j].UniqueKey() })
	return records, nil
}

// Update replaces the record. When the natural key changes the old claim is
// released and the new one taken in the same transaction.
func (r *CatalogDynamoRepository[T]) Update(ctx context.Context, previous, next T) (T, error) {
	var zero T
	put, err := r.put(next, "attribute_exists(#id)")
	if err != nil {
		return zero, err
	}

	if previous.UniqueKey() == next.UniqueKey() {
		_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                put.TableName,
			Item:                     put.Item,
			ConditionExpression:      put.ConditionExpression,
			ExpressionAttributeNames: put.ExpressionAttributeNames,
		})
		if err != nil {
			if isConditionFailed(err) {
				return zero, nil
			}
			return zero, err
		}
		return next, nil
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			deleteClaim(r.countersName, r.collection, previous.UniqueKey()),
			putClaim(r.countersName, r.collection, next.UniqueKey(), next.RecordID()),
		},
	})
	if err != nil {
		if failedAt(err, 0) {
			return zero, nil
		}
		return zero, txError(err, 2)
	}
	return next, nil
}

func (r *CatalogDynamoRepository[T]) Delete(ctx context.Context, rec T) error {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:                aws.String(r.tableName),
					Key:                      idKey(rec.RecordID()),
					ConditionExpression:      aws.String("attribute_exists(#id)"),
					ExpressionAttributeNames: map[string]string{"#id": "id"},
				},
			},
			deleteClaim(r.countersName, r.collection, rec.UniqueKey()),
		},
	})
	if err != nil {
		return txError(err)
	}
	return nil
}

// Increment atomically adds delta to a numeric attribute. A negative delta
// never takes the attribute below zero: that case is ErrConditionFailed, while
// a missing record is the zero value.
func (r *CatalogDynamoRepository[T]) Increment(ctx context.Context, id, attribute string, delta int) (T, error) {
	var zero T
	cond := "attribute_exists(#id)"
	values := map[string]types.AttributeValue{
		":delta": &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
		":now":   &types.AttributeValueMemberS{Value: formatTime(time.Now())},
	}
	if delta < 0 {
		cond += " AND #attr >= :floor"
		values[":floor"] = &types.AttributeValueMemberN{Value: strconv.Itoa(-delta)}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(id),
		ConditionExpression:       aws.String(cond),
		UpdateExpression:          aws.String("SET #updated_at = :now ADD #attr :delta"),
		ExpressionAttributeNames:  map[string]string{"#id": "id", "#attr": attribute, "#updated_at": "updated_at"},
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if !isConditionFailed(err) {
			return zero, err
		}
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return zero, getErr
		}
		if existing.RecordID() == "" {
			return zero, nil
		}
		return zero, interfaces.ErrConditionFailed
	}

	var rec T
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return zero, err
	}
	return rec, nil
}
