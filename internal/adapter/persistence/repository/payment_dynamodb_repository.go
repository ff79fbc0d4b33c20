package repository

import (
	"context"
	"sort"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type paymentItem struct {
	ID                string                 `dynamodbav:"id"`
	OrderID           string                 `dynamodbav:"order_id"`
	Amount            float64                `dynamodbav:"amount"`
	Method            string                 `dynamodbav:"method"`
	ProviderPaymentID string                 `dynamodbav:"provider_payment_id"`
	Date              string                 `dynamodbav:"date"`
	Status            string                 `dynamodbav:"status"`
	MPPayload         map[string]interface{} `dynamodbav:"mp_payload,omitempty"`
	MPPayloadRaw      string                 `dynamodbav:"mp_payload_raw,omitempty"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: order_id-index (PK: order_id)
type PaymentDynamoRepository struct {
	ddb        DynamoDBAPI
	tableName  string
	ordersName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb DynamoDBAPI, tables Tables) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:        ddb,
		tableName:  tables.Payments,
		ordersName: tables.Orders,
	}
}

// Create stores the payment. With a non-nil order the amount moves from the
// order's balance to its advance in the same transaction, guarded by
// balance >= amount.
func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment, order *entities.Order) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}
	put := &types.Put{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	}

	if order == nil {
		_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                put.TableName,
			Item:                     put.Item,
			ConditionExpression:      put.ConditionExpression,
			ExpressionAttributeNames: put.ExpressionAttributeNames,
		})
		if err != nil {
			if isConditionFailed(err) {
				return entities.Payment{}, interfaces.ErrDuplicateKey
			}
			return entities.Payment{}, err
		}
		return p, nil
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			{
				Update: &types.Update{
					TableName:           aws.String(r.ordersName),
					Key:                 idKey(order.ID),
					ConditionExpression: aws.String("attribute_exists(#id) AND #balance >= :amount"),
					UpdateExpression:    aws.String("SET #advance = #advance + :amount, #balance = #balance - :amount, #updated_at = :updated_at ADD #version :one"),
					ExpressionAttributeNames: map[string]string{
						"#id":         "id",
						"#advance":    "advance",
						"#balance":    "balance",
						"#updated_at": "updated_at",
						"#version":    "version",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount":     numberValue(p.Amount),
						":updated_at": &types.AttributeValueMemberS{Value: formatTime(p.Date)},
						":one":        &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	})
	if err != nil {
		return entities.Payment{}, txError(err, 0)
	}
	return p, nil
}

func (r *PaymentDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(orderIDIndex),
		KeyConditionExpression: aws.String("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: orderID},
		},
	}

	payments := []entities.Payment{}
	p := dynamodb.NewQueryPaginator(r.ddb, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it paymentItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			payments = append(payments, fromPaymentItem(it))
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].Date.Before(payments[j].Date) })
	return payments, nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		ID:                p.ID,
		OrderID:           p.OrderID,
		Amount:            p.Amount,
		Method:            p.Method,
		ProviderPaymentID: p.ProviderPaymentID,
		Date:              formatTime(p.Date),
		Status:            string(p.Status),
		MPPayload:         p.MPPayload,
		MPPayloadRaw:      string(p.MPPayloadRaw),
	}
}

func fromPaymentItem(it paymentItem) entities.Payment {
	return entities.Payment{
		ID:                it.ID,
		OrderID:           it.OrderID,
		Amount:            it.Amount,
		Method:            it.Method,
		ProviderPaymentID: it.ProviderPaymentID,
		Date:              parseTime(it.Date),
		Status:            entities.PaymentStatus(it.Status),
		MPPayload:         it.MPPayload,
		MPPayloadRaw:      []byte(it.MPPayloadRaw),
	}
}
