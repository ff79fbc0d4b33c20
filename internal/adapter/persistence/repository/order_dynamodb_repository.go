package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const ordersCollection = "orders"

type orderItem struct {
	ID             string              `dynamodbav:"id"`
	OrderID        string              `dynamodbav:"order_id"`
	CustomerName   string              `dynamodbav:"customer_name"`
	CustomerSearch string              `dynamodbav:"customer_search"`
	AgentName      string              `dynamodbav:"agent_name"`
	Items          []entities.LineItem `dynamodbav:"items"`
	Total          float64             `dynamodbav:"total"`
	Advance        float64             `dynamodbav:"advance"`
	Balance        float64             `dynamodbav:"balance"`
	Status         string              `dynamodbav:"status"`
	EstimateID     *string             `dynamodbav:"estimate_id"`
	CreatedAt      string              `dynamodbav:"created_at"`
	UpdatedAt      string              `dynamodbav:"updated_at"`
	Version        int64               `dynamodbav:"version"`
}

// OrderDynamoRepository persists Order entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Business keys resolve through the key claims in the counters table.
// customer_search is a lower-cased copy of customer_name used by the list filter.
type OrderDynamoRepository struct {
	ddb          DynamoDBAPI
	tableName    string
	countersName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb DynamoDBAPI, tables Tables) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:          ddb,
		tableName:    tables.Orders,
		countersName: tables.Counters,
	}
}

func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

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
			putClaim(r.countersName, ordersCollection, o.OrderID, o.ID),
		},
	})
	if err != nil {
		return entities.Order{}, txError(err, 0, 1)
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}
	return unmarshalOrder(out.Item)
}

func (r *OrderDynamoRepository) GetByOrderID(ctx context.Context, orderID string) (entities.Order, error) {
	id, err := claimOwner(ctx, r.ddb, r.countersName, ordersCollection, orderID)
	if err != nil || id == "" {
		return entities.Order{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrderDynamoRepository) List(ctx context.Context, filter interfaces.OrderFilter) ([]entities.Order, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}

	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	if filter.Status != "" {
		conds = append(conds, "#status = :status")
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: filter.Status}
	}
	if filter.Customer != "" {
		conds = append(conds, "contains(#customer_search, :customer)")
		names["#customer_search"] = "customer_search"
		values[":customer"] = &types.AttributeValueMemberS{Value: strings.ToLower(filter.Customer)}
	}
	if len(conds) > 0 {
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	orders := []entities.Order{}
	p := dynamodb.NewScanPaginator(r.ddb, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			o, err := unmarshalOrder(raw)
			if err != nil {
				return nil, err
			}
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	return orders, nil
}

// Update writes the editable fields when the stored version still equals
// o.Version; a newer version is ErrConditionFailed and a missing order is the
// zero value. The business key and the estimate link are owned by Create and
// the estimate transactions.
func (r *OrderDynamoRepository) Update(ctx context.Context, o entities.Order) (entities.Order, error) {
	items, err := attributevalue.Marshal(o.Items)
	if err != nil {
		return entities.Order{}, err
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(o.ID),
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :version"),
		UpdateExpression: aws.String("SET #customer_name = :customer_name, #customer_search = :customer_search, " +
			"#agent_name = :agent_name, #items = :items, #total = :total, #advance = :advance, " +
			"#balance = :balance, #status = :status, #updated_at = :updated_at, #version = :next_version"),
		ExpressionAttributeNames: map[string]string{
			"#id":              "id",
			"#customer_name":   "customer_name",
			"#customer_search": "customer_search",
			"#agent_name":      "agent_name",
			"#items":           "items",
			"#total":           "total",
			"#advance":         "advance",
			"#balance":         "balance",
			"#status":          "status",
			"#updated_at":      "updated_at",
			"#version":         "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":customer_name":   &types.AttributeValueMemberS{Value: o.CustomerName},
			":customer_search": &types.AttributeValueMemberS{Value: strings.ToLower(o.CustomerName)},
			":agent_name":      &types.AttributeValueMemberS{Value: o.AgentName},
			":items":           items,
			":total":           numberValue(o.Total),
			":advance":         numberValue(o.Advance),
			":balance":         numberValue(o.Balance),
			":status":          &types.AttributeValueMemberS{Value: string(o.Status)},
			":updated_at":      &types.AttributeValueMemberS{Value: formatTime(o.UpdatedAt)},
			":version":         &types.AttributeValueMemberN{Value: strconv.FormatInt(o.Version, 10)},
			":next_version":    &types.AttributeValueMemberN{Value: strconv.FormatInt(o.Version+1, 10)},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			return entities.Order{}, err
		}
		if len(cfe.Item) == 0 {
			return entities.Order{}, nil
		}
		return entities.Order{}, interfaces.ErrConditionFailed
	}
	if len(out.Attributes) == 0 {
		return entities.Order{}, nil
	}
	return unmarshalOrder(out.Attributes)
}

func (r *OrderDynamoRepository) Delete(ctx context.Context, o entities.Order) error {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:                aws.String(r.tableName),
					Key:                      idKey(o.ID),
					ConditionExpression:      aws.String("attribute_exists(#id)"),
					ExpressionAttributeNames: map[string]string{"#id": "id"},
				},
			},
			deleteClaim(r.countersName, ordersCollection, o.OrderID),
		},
	})
	if err != nil {
		return txError(err)
	}
	return nil
}

// orderStatusUpdate is the order side of the estimate transactions.
func orderStatusUpdate(table, id string, status entities.OrderStatus, link bool, estimateID *string, now string) types.TransactWriteItem {
	expr := "SET #status = :status, #updated_at = :updated_at"
	names := map[string]string{
		"#id":         "id",
		"#status":     "status",
		"#updated_at": "updated_at",
		"#version":    "version",
	}
	values := map[string]types.AttributeValue{
		":status":     &types.AttributeValueMemberS{Value: string(status)},
		":updated_at": &types.AttributeValueMemberS{Value: now},
		":one":        &types.AttributeValueMemberN{Value: "1"},
	}
	if link {
		expr += ", #estimate_id = :estimate_id"
		names["#estimate_id"] = "estimate_id"
		if estimateID == nil {
			values[":estimate_id"] = &types.AttributeValueMemberNULL{Value: true}
		} else {
			values[":estimate_id"] = &types.AttributeValueMemberS{Value: *estimateID}
		}
	}
	expr += " ADD #version :one"
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(table),
			Key:                       idKey(id),
			ConditionExpression:       aws.String("attribute_exists(#id)"),
			UpdateExpression:          aws.String(expr),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		},
	}
}

func unmarshalOrder(raw map[string]types.AttributeValue) (entities.Order, error) {
	var it orderItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func toOrderItem(o entities.Order) orderItem {
	return orderItem{
		ID:             o.ID,
		OrderID:        o.OrderID,
		CustomerName:   o.CustomerName,
		CustomerSearch: strings.ToLower(o.CustomerName),
		AgentName:      o.AgentName,
		Items:          o.Items,
		Total:          o.Total,
		Advance:        o.Advance,
		Balance:        o.Balance,
		Status:         string(o.Status),
		EstimateID:     o.EstimateID,
		CreatedAt:      formatTime(o.CreatedAt),
		UpdatedAt:      formatTime(o.UpdatedAt),
		Version:        o.Version,
	}
}

func fromOrderItem(it orderItem) entities.Order {
	return entities.Order{
		ID:           it.ID,
		OrderID:      it.OrderID,
		CustomerName: it.CustomerName,
		AgentName:    it.AgentName,
		Items:        it.Items,
		Total:        it.Total,
		Advance:      it.Advance,
		Balance:      it.Balance,
		Status:       entities.OrderStatus(it.Status),
		EstimateID:   it.EstimateID,
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
		Version:      it.Version,
	}
}
