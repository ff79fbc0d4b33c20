package repository

import (
	"context"
	"sort"
	"time"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const estimatesCollection = "estimates"

type estimateItem struct {
	ID           string              `dynamodbav:"id"`
	EstimateID   string              `dynamodbav:"estimate_id"`
	OrderID      string              `dynamodbav:"order_id"`
	CustomerName string              `dynamodbav:"customer_name"`
	AgentName    string              `dynamodbav:"agent_name"`
	Items        []entities.LineItem `dynamodbav:"items"`
	Total        float64             `dynamodbav:"total"`
	Advance      float64             `dynamodbav:"advance"`
	Balance      float64             `dynamodbav:"balance"`
	Status       string              `dynamodbav:"status"`
	Notes        string              `dynamodbav:"notes"`
	CreatedAt    string              `dynamodbav:"created_at"`
	UpdatedAt    string              `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists Estimate entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: order_id-index (PK: order_id), used by List
//
// Every write that also changes the parent order goes through a single
// TransactWriteItems call.
type EstimateDynamoRepository struct {
	ddb          DynamoDBAPI
	tableName    string
	ordersName   string
	countersName string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb DynamoDBAPI, tables Tables) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{
		ddb:          ddb,
		tableName:    tables.Estimates,
		ordersName:   tables.Orders,
		countersName: tables.Counters,
	}
}

// CreateLinked writes the estimate, claims its key and links the order.
func (r *EstimateDynamoRepository) CreateLinked(ctx context.Context, e entities.Estimate, order entities.Order) (entities.Estimate, error) {
	av, err := attributevalue.MarshalMap(toEstimateItem(e))
	if err != nil {
		return entities.Estimate{}, err
	}

	key := e.EstimateID
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:                aws.String(r.tableName),
					Item:                     av,
					ConditionExpression:      aws.String("attribute_not_exists(#id)"),
					ExpressionAttributeNames: map[string]string{"#id": "id"},
				},
			},
			putClaim(r.countersName, estimatesCollection, e.EstimateID, e.ID),
			orderStatusUpdate(r.ordersName, order.ID, entities.OrderStatusPending, true, &key, formatTime(e.UpdatedAt)),
		},
	})
	if err != nil {
		return entities.Estimate{}, txError(err, 0, 1)
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Estimate{}, nil
	}
	return unmarshalEstimate(out.Item)
}

func (r *EstimateDynamoRepository) GetByEstimateID(ctx context.Context, estimateID string) (entities.Estimate, error) {
	id, err := claimOwner(ctx, r.ddb, r.countersName, estimatesCollection, estimateID)
	if err != nil || id == "" {
		return entities.Estimate{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *EstimateDynamoRepository) List(ctx context.Context, filter interfaces.EstimateFilter) ([]entities.Estimate, error) {
	var raws []map[string]types.AttributeValue

	var statusFilter *string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	if filter.Status != "" {
		statusFilter = aws.String("#status = :status")
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: filter.Status}
	}

	if filter.OrderID != "" {
		values[":oid"] = &types.AttributeValueMemberS{Value: filter.OrderID}
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(orderIDIndex),
			KeyConditionExpression:    aws.String("order_id = :oid"),
			FilterExpression:          statusFilter,
			ExpressionAttributeValues: values,
		}
		if len(names) > 0 {
			input.ExpressionAttributeNames = names
		}
		p := dynamodb.NewQueryPaginator(r.ddb, input)
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			raws = append(raws, page.Items...)
		}
	} else {
		input := &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: statusFilter,
		}
		if len(names) > 0 {
			input.ExpressionAttributeNames = names
			input.ExpressionAttributeValues = values
		}
		p := dynamodb.NewScanPaginator(r.ddb, input)
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			raws = append(raws, page.Items...)
		}
	}

	estimates := make([]entities.Estimate, 0, len(raws))
	for _, raw := range raws {
		e, err := unmarshalEstimate(raw)
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, e)
	}
	sort.Slice(estimates, func(i, j int) bool { return estimates[i].EstimateID < estimates[j].EstimateID })
	return estimates, nil
}

// Update replaces the estimate's editable fields. With a non-nil completedOrder
// the order is marked Completed in the same transaction.
func (r *EstimateDynamoRepository) Update(ctx context.Context, e entities.Estimate, completedOrder *entities.Order) (entities.Estimate, error) {
	update, err := r.estimateUpdate(e)
	if err != nil {
		return entities.Estimate{}, err
	}

	if completedOrder == nil {
		_, err = r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 update.TableName,
			Key:                       update.Key,
			ConditionExpression:       update.ConditionExpression,
			UpdateExpression:          update.UpdateExpression,
			ExpressionAttributeNames:  update.ExpressionAttributeNames,
			ExpressionAttributeValues: update.ExpressionAttributeValues,
		})
		if err != nil {
			if isConditionFailed(err) {
				return entities.Estimate{}, nil
			}
			return entities.Estimate{}, err
		}
		return e, nil
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: update},
			orderStatusUpdate(r.ordersName, completedOrder.ID, entities.OrderStatusCompleted, false, nil, formatTime(e.UpdatedAt)),
		},
	})
	if err != nil {
		if failedAt(err, 0) {
			return entities.Estimate{}, nil
		}
		return entities.Estimate{}, txError(err)
	}
	return e, nil
}

func (r *EstimateDynamoRepository) estimateUpdate(e entities.Estimate) (*types.Update, error) {
	items, err := attributevalue.Marshal(e.Items)
	if err != nil {
		return nil, err
	}
	return &types.Update{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(e.ID),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression: aws.String("SET #customer_name = :customer_name, #agent_name = :agent_name, " +
			"#items = :items, #total = :total, #advance = :advance, #balance = :balance, " +
			"#status = :status, #notes = :notes, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":            "id",
			"#customer_name": "customer_name",
			"#agent_name":    "agent_name",
			"#items":         "items",
			"#total":         "total",
			"#advance":       "advance",
			"#balance":       "balance",
			"#status":        "status",
			"#notes":         "notes",
			"#updated_at":    "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":customer_name": &types.AttributeValueMemberS{Value: e.CustomerName},
			":agent_name":    &types.AttributeValueMemberS{Value: e.AgentName},
			":items":         items,
			":total":         numberValue(e.Total),
			":advance":       numberValue(e.Advance),
			":balance":       numberValue(e.Balance),
			":status":        &types.AttributeValueMemberS{Value: string(e.Status)},
			":notes":         &types.AttributeValueMemberS{Value: e.Notes},
			":updated_at":    &types.AttributeValueMemberS{Value: formatTime(e.UpdatedAt)},
		},
	}, nil
}

// DeleteLinked removes the estimate and its key claim. With a non-nil order the
// link is cleared and the order goes back to No Estimate in the same
// transaction.
func (r *EstimateDynamoRepository) DeleteLinked(ctx context.Context, e entities.Estimate, order *entities.Order) error {
	tx := []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName:                aws.String(r.tableName),
				Key:                      idKey(e.ID),
				ConditionExpression:      aws.String("attribute_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			},
		},
		deleteClaim(r.countersName, estimatesCollection, e.EstimateID),
	}
	if order != nil {
		now := formatTime(time.Now())
		tx = append(tx, orderStatusUpdate(r.ordersName, order.ID, entities.OrderStatusNoEstimate, true, nil, now))
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: tx})
	if err != nil {
		return txError(err)
	}
	return nil
}

func unmarshalEstimate(raw map[string]types.AttributeValue) (entities.Estimate, error) {
	var it estimateItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

func toEstimateItem(e entities.Estimate) estimateItem {
	return estimateItem{
		ID:           e.ID,
		EstimateID:   e.EstimateID,
		OrderID:      e.OrderID,
		CustomerName: e.CustomerName,
		AgentName:    e.AgentName,
		Items:        e.Items,
		Total:        e.Total,
		Advance:      e.Advance,
		Balance:      e.Balance,
		Status:       string(e.Status),
		Notes:        e.Notes,
		CreatedAt:    formatTime(e.CreatedAt),
		UpdatedAt:    formatTime(e.UpdatedAt),
	}
}

func fromEstimateItem(it estimateItem) entities.Estimate {
	return entities.Estimate{
		ID:           it.ID,
		EstimateID:   it.EstimateID,
		OrderID:      it.OrderID,
		CustomerName: it.CustomerName,
		AgentName:    it.AgentName,
		Items:        it.Items,
		Total:        it.Total,
		Advance:      it.Advance,
		Balance:      it.Balance,
		Status:       entities.EstimateStatus(it.Status),
		Notes:        it.Notes,
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
}
