package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizdesk/internal/domain/entities"
	"bizdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestTxError(t *testing.T) {
	plain := errors.New("boom")
	if got := txError(plain, 0); got != plain {
		t.Fatalf("expected non-transaction errors to pass through, got %v", got)
	}
	if got := txError(cancelled(3, 1), 0, 1); !errors.Is(got, interfaces.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", got)
	}
	if got := txError(cancelled(3, 2), 0, 1); !errors.Is(got, interfaces.ErrConditionFailed) {
		t.Fatalf("expected ErrConditionFailed, got %v", got)
	}
	if !failedAt(cancelled(2, 0), 0) || failedAt(cancelled(2, 0), 1) {
		t.Fatalf("failedAt reported the wrong position")
	}
}

func TestSequenceDynamoRepository_Next(t *testing.T) {
	f := &fakeDynamo{updateOut: &dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{"value": &types.AttributeValueMemberN{Value: "42"}},
	}}
	repo := NewSequenceDynamoRepository(f, testTables)

	n, err := repo.Next(context.Background(), "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Fatalf("expected 42, got %d", n)
	}
	key := f.lastUpdate.Key["name"].(*types.AttributeValueMemberS).Value
	if key != "seq#orders" || aws.ToString(f.lastUpdate.TableName) != "counters" {
		t.Fatalf("unexpected counter target table=%s key=%s", aws.ToString(f.lastUpdate.TableName), key)
	}
	if aws.ToString(f.lastUpdate.UpdateExpression) != "ADD #value :one" {
		t.Fatalf("unexpected update expression %q", aws.ToString(f.lastUpdate.UpdateExpression))
	}
}

func TestOrderDynamoRepository_CreateClaimsKey(t *testing.T) {
	f := &fakeDynamo{}
	repo := NewOrderDynamoRepository(f, testTables)

	o := entities.Order{ID: "uuid-1", OrderID: "ORD-001", CustomerName: "Acme", Status: entities.OrderStatusNoEstimate}
	if _, err := repo.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.lastTx.TransactItems) != 2 {
		t.Fatalf("expected 2 transaction items, got %d", len(f.lastTx.TransactItems))
	}
	claim := f.lastTx.TransactItems[1].Put
	if got := claim.Item["name"].(*types.AttributeValueMemberS).Value; got != "key#orders#ORD-001" {
		t.Fatalf("unexpected claim %s", got)
	}
	if _, ok := f.lastTx.TransactItems[0].Put.Item["estimate_id"].(*types.AttributeValueMemberNULL); !ok {
		t.Fatalf("expected estimate_id to be stored as NULL")
	}

	f.txErr = cancelled(2, 1)
	if _, err := repo.Create(context.Background(), o); !errors.Is(err, interfaces.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestOrderDynamoRepository_UpdateMissingReturnsZero(t *testing.T) {
	f := &fakeDynamo{updateErr: &types.ConditionalCheckFailedException{Message: aws.String("gone")}}
	repo := NewOrderDynamoRepository(f, testTables)

	got, err := repo.Update(context.Background(), entities.Order{ID: "missing", CustomerName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "" {
		t.Fatalf("expected zero order, got %+v", got)
	}
	if _, ok := f.lastUpdate.ExpressionAttributeNames["#estimate_id"]; ok {
		t.Fatalf("plain update must not touch the estimate link")
	}
}

func TestOrderDynamoRepository_UpdateIsVersioned(t *testing.T) {
	o := entities.Order{ID: "o-uuid", OrderID: "ORD-001", CustomerName: "Acme", Status: entities.OrderStatusPending, Version: 3}

	t.Run("conditions on the version it read", func(t *testing.T) {
		stored, _ := attributevalue.MarshalMap(toOrderItem(entities.Order{ID: "o-uuid", OrderID: "ORD-001", Version: 4}))
		f := &fakeDynamo{updateOut: &dynamodb.UpdateItemOutput{Attributes: stored}}
		repo := NewOrderDynamoRepository(f, testTables)

		got, err := repo.Update(context.Background(), o)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Version != 4 {
			t.Fatalf("expected version 4, got %d", got.Version)
		}
		in := f.lastUpdate
		if aws.ToString(in.ConditionExpression) != "attribute_exists(#id) AND #version = :version" {
			t.Fatalf("unexpected condition %s", aws.ToString(in.ConditionExpression))
		}
		if in.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN).Value != "3" ||
			in.ExpressionAttributeValues[":next_version"].(*types.AttributeValueMemberN).Value != "4" {
			t.Fatalf("unexpected version values %+v", in.ExpressionAttributeValues)
		}
		if in.ReturnValuesOnConditionCheckFailure != types.ReturnValuesOnConditionCheckFailureAllOld {
			t.Fatalf("expected ALL_OLD on condition failure")
		}
	})

	t.Run("newer version is a conflict", func(t *testing.T) {
		current, _ := attributevalue.MarshalMap(toOrderItem(entities.Order{ID: "o-uuid", OrderID: "ORD-001", Version: 5}))
		f := &fakeDynamo{updateErr: &types.ConditionalCheckFailedException{Message: aws.String("stale"), Item: current}}
		repo := NewOrderDynamoRepository(f, testTables)

		if _, err := repo.Update(context.Background(), o); !errors.Is(err, interfaces.ErrConditionFailed) {
			t.Fatalf("expected ErrConditionFailed, got %v", err)
		}
	})
}

func TestOrderDynamoRepository_GetByOrderIDReadsClaim(t *testing.T) {
	stored, _ := attributevalue.MarshalMap(toOrderItem(entities.Order{ID: "o-uuid", OrderID: "ORD-001", CustomerName: "Acme"}))
	f := &fakeDynamo{getOuts: []*dynamodb.GetItemOutput{
		{Item: map[string]types.AttributeValue{
			"name":  &types.AttributeValueMemberS{Value: "key#orders#ORD-001"},
			"owner": &types.AttributeValueMemberS{Value: "o-uuid"},
		}},
		{Item: stored},
	}}
	repo := NewOrderDynamoRepository(f, testTables)

	o, err := repo.GetByOrderID(context.Background(), "ORD-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != "o-uuid" || o.CustomerName != "Acme" {
		t.Fatalf("unexpected order %+v", o)
	}
	if f.lastQuery != nil {
		t.Fatalf("business key lookup must not query a secondary index")
	}
	if len(f.gets) != 2 {
		t.Fatalf("expected 2 GetItem calls, got %d", len(f.gets))
	}
	claim := f.gets[0]
	if aws.ToString(claim.TableName) != "counters" || !aws.ToBool(claim.ConsistentRead) {
		t.Fatalf("expected a consistent read of the counters table, got %+v", claim)
	}
	if got := claim.Key["name"].(*types.AttributeValueMemberS).Value; got != "key#orders#ORD-001" {
		t.Fatalf("unexpected claim key %s", got)
	}
	doc := f.gets[1]
	if aws.ToString(doc.TableName) != "orders" || !aws.ToBool(doc.ConsistentRead) {
		t.Fatalf("expected a consistent read of the orders table, got %+v", doc)
	}
	if got := doc.Key["id"].(*types.AttributeValueMemberS).Value; got != "o-uuid" {
		t.Fatalf("unexpected order id %s", got)
	}
}

func TestOrderDynamoRepository_GetByOrderIDUnclaimed(t *testing.T) {
	f := &fakeDynamo{}
	repo := NewOrderDynamoRepository(f, testTables)

	o, err := repo.GetByOrderID(context.Background(), "ORD-404")
	if err != nil || o.ID != "" {
		t.Fatalf("expected zero order, got %+v %v", o, err)
	}
	if len(f.gets) != 1 {
		t.Fatalf("expected only the claim read, got %d reads", len(f.gets))
	}
}

func TestEstimateDynamoRepository_GetByEstimateIDReadsClaim(t *testing.T) {
	stored, _ := attributevalue.MarshalMap(toEstimateItem(entities.Estimate{ID: "e-uuid", EstimateID: "EST-001", OrderID: "ORD-001"}))
	f := &fakeDynamo{getOuts: []*dynamodb.GetItemOutput{
		{Item: map[string]types.AttributeValue{"owner": &types.AttributeValueMemberS{Value: "e-uuid"}}},
		{Item: stored},
	}}
	repo := NewEstimateDynamoRepository(f, testTables)

	e, err := repo.GetByEstimateID(context.Background(), "EST-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != "e-uuid" || e.OrderID != "ORD-001" {
		t.Fatalf("unexpected estimate %+v", e)
	}
	if f.lastQuery != nil {
		t.Fatalf("business key lookup must not query a secondary index")
	}
	if got := f.gets[0].Key["name"].(*types.AttributeValueMemberS).Value; got != "key#estimates#EST-001" {
		t.Fatalf("unexpected claim key %s", got)
	}
	if aws.ToString(f.gets[1].TableName) != "estimates" {
		t.Fatalf("expected estimates table, got %s", aws.ToString(f.gets[1].TableName))
	}
}

func TestOrderDynamoRepository_ListFiltersAndSorts(t *testing.T) {
	page := func(items ...orderItem) *dynamodb.ScanOutput {
		out := &dynamodb.ScanOutput{}
		for _, it := range items {
			av, err := attributevalue.MarshalMap(it)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			out.Items = append(out.Items, av)
		}
		return out
	}
	first := page(orderItem{ID: "b", OrderID: "ORD-002", CreatedAt: time.Now().Format(time.RFC3339Nano)})
	first.LastEvaluatedKey = idKey("b")
	f := &fakeDynamo{scanPages: []*dynamodb.ScanOutput{first, page(orderItem{ID: "a", OrderID: "ORD-001"})}}
	repo := NewOrderDynamoRepository(f, testTables)

	orders, err := repo.List(context.Background(), interfaces.OrderFilter{Status: "Pending", Customer: "AcMe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 || orders[0].OrderID != "ORD-001" {
		t.Fatalf("expected both pages sorted by order id, got %+v", orders)
	}
	want := "#status = :status AND contains(#customer_search, :customer)"
	if got := aws.ToString(f.lastScan.FilterExpression); got != want {
		t.Fatalf("unexpected filter %q", got)
	}
	if got := f.lastScan.ExpressionAttributeValues[":customer"].(*types.AttributeValueMemberS).Value; got != "acme" {
		t.Fatalf("expected lower-cased customer filter, got %s", got)
	}
}

func TestEstimateDynamoRepository_CreateLinked(t *testing.T) {
	f := &fakeDynamo{}
	repo := NewEstimateDynamoRepository(f, testTables)

	e := entities.Estimate{ID: "e-uuid", EstimateID: "EST-001", OrderID: "ORD-001", Status: entities.EstimateStatusPending}
	order := entities.Order{ID: "o-uuid", OrderID: "ORD-001"}
	if _, err := repo.CreateLinked(context.Background(), e, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := f.lastTx.TransactItems
	if len(items) != 3 {
		t.Fatalf("expected 3 transaction items, got %d", len(items))
	}
	upd := items[2].Update
	if aws.ToString(upd.TableName) != "orders" {
		t.Fatalf("expected order update, got table %s", aws.ToString(upd.TableName))
	}
	if got := upd.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS).Value; got != "Pending" {
		t.Fatalf("expected order status Pending, got %s", got)
	}
	if got := upd.ExpressionAttributeValues[":estimate_id"].(*types.AttributeValueMemberS).Value; got != "EST-001" {
		t.Fatalf("expected link to EST-001, got %s", got)
	}
	if got := aws.ToString(upd.UpdateExpression); got != "SET #status = :status, #updated_at = :updated_at, #estimate_id = :estimate_id ADD #version :one" {
		t.Fatalf("linking must bump the order version, got %s", got)
	}

	f.txErr = cancelled(3, 2)
	if _, err := repo.CreateLinked(context.Background(), e, order); !errors.Is(err, interfaces.ErrConditionFailed) {
		t.Fatalf("expected ErrConditionFailed for a missing order, got %v", err)
	}
}

func TestEstimateDynamoRepository_Update(t *testing.T) {
	e := entities.Estimate{ID: "e-uuid", EstimateID: "EST-001", Status: entities.EstimateStatusCompleted}

	t.Run("without order uses a single update", func(t *testing.T) {
		f := &fakeDynamo{}
		repo := NewEstimateDynamoRepository(f, testTables)
		if _, err := repo.Update(context.Background(), e, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.lastTx != nil || f.lastUpdate == nil {
			t.Fatalf("expected UpdateItem only")
		}
	})

	t.Run("completed order in one transaction", func(t *testing.T) {
		f := &fakeDynamo{}
		repo := NewEstimateDynamoRepository(f, testTables)
		if _, err := repo.Update(context.Background(), e, &entities.Order{ID: "o-uuid"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.lastTx.TransactItems) != 2 {
			t.Fatalf("expected 2 transaction items, got %d", len(f.lastTx.TransactItems))
		}
		upd := f.lastTx.TransactItems[1].Update
		if got := upd.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS).Value; got != "Completed" {
			t.Fatalf("expected Completed, got %s", got)
		}
	})

	t.Run("estimate gone", func(t *testing.T) {
		f := &fakeDynamo{txErr: cancelled(2, 0)}
		repo := NewEstimateDynamoRepository(f, testTables)
		got, err := repo.Update(context.Background(), e, &entities.Order{ID: "o-uuid"})
		if err != nil || got.ID != "" {
			t.Fatalf("expected zero estimate and no error, got %+v %v", got, err)
		}
	})
}

func TestEstimateDynamoRepository_DeleteLinked(t *testing.T) {
	f := &fakeDynamo{}
	repo := NewEstimateDynamoRepository(f, testTables)
	e := entities.Estimate{ID: "e-uuid", EstimateID: "EST-001"}

	if err := repo.DeleteLinked(context.Background(), e, &entities.Order{ID: "o-uuid"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := f.lastTx.TransactItems
	if len(items) != 3 {
		t.Fatalf("expected 3 transaction items, got %d", len(items))
	}
	if _, ok := items[2].Update.ExpressionAttributeValues[":estimate_id"].(*types.AttributeValueMemberNULL); !ok {
		t.Fatalf("expected estimate_id cleared to NULL")
	}
	if got := items[2].Update.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS).Value; got != "No Estimate" {
		t.Fatalf("expected No Estimate, got %s", got)
	}

	if err := repo.DeleteLinked(context.Background(), e, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.lastTx.TransactItems) != 2 {
		t.Fatalf("expected the order update to be skipped")
	}
}

func TestPaymentDynamoRepository_Create(t *testing.T) {
	p := entities.Payment{ID: "ORD-001-1", OrderID: "ORD-001", Amount: 40, Date: time.Now()}

	t.Run("applies to the order", func(t *testing.T) {
		f := &fakeDynamo{}
		repo := NewPaymentDynamoRepository(f, testTables)
		if _, err := repo.Create(context.Background(), p, &entities.Order{ID: "o-uuid"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		upd := f.lastTx.TransactItems[1].Update
		if got := aws.ToString(upd.ConditionExpression); got != "attribute_exists(#id) AND #balance >= :amount" {
			t.Fatalf("unexpected condition %q", got)
		}
		if got := upd.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN).Value; got != "40" {
			t.Fatalf("unexpected amount %s", got)
		}
	})

	t.Run("balance guard", func(t *testing.T) {
		f := &fakeDynamo{txErr: cancelled(2, 1)}
		repo := NewPaymentDynamoRepository(f, testTables)
		_, err := repo.Create(context.Background(), p, &entities.Order{ID: "o-uuid"})
		if !errors.Is(err, interfaces.ErrConditionFailed) {
			t.Fatalf("expected ErrConditionFailed, got %v", err)
		}
	})

	t.Run("without order only stores", func(t *testing.T) {
		f := &fakeDynamo{}
		repo := NewPaymentDynamoRepository(f, testTables)
		if _, err := repo.Create(context.Background(), p, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.lastTx != nil || f.lastPut == nil {
			t.Fatalf("expected a single PutItem")
		}
	})
}

func TestCatalogDynamoRepository_Update(t *testing.T) {
	prev := entities.Customer{ID: "c1", Name: "Asha", Phone: "9000"}

	t.Run("same key is a conditional put", func(t *testing.T) {
		f := &fakeDynamo{}
		repo := NewCatalogDynamoRepository[entities.Customer](f, testTables)
		next := prev
		next.City = "Pune"
		if _, err := repo.Update(context.Background(), prev, next); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if aws.ToString(f.lastPut.TableName) != "bizdesk_customers" {
			t.Fatalf("unexpected table %s", aws.ToString(f.lastPut.TableName))
		}
	})

	t.Run("key change swaps claims", func(t *testing.T) {
		f := &fakeDynamo{}
		repo := NewCatalogDynamoRepository[entities.Customer](f, testTables)
		next := prev
		next.Phone = "9100"
		if _, err := repo.Update(context.Background(), prev, next); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		items := f.lastTx.TransactItems
		if len(items) != 3 {
			t.Fatalf("expected 3 transaction items, got %d", len(items))
		}
		if got := items[1].Delete.Key["name"].(*types.AttributeValueMemberS).Value; got != "key#customers#9000" {
			t.Fatalf("unexpected released claim %s", got)
		}
		if got := items[2].Put.Item["name"].(*types.AttributeValueMemberS).Value; got != "key#customers#9100" {
			t.Fatalf("unexpected new claim %s", got)
		}

		f.txErr = cancelled(3, 2)
		if _, err := repo.Update(context.Background(), prev, next); !errors.Is(err, interfaces.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
	})
}

func TestCatalogDynamoRepository_Increment(t *testing.T) {
	stored, err := attributevalue.MarshalMap(entities.InventoryItem{ID: "i1", ProductCode: "A1", Quantity: 2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	t.Run("adds delta", func(t *testing.T) {
		updated, _ := attributevalue.MarshalMap(entities.InventoryItem{ID: "i1", ProductCode: "A1", Quantity: 5})
		f := &fakeDynamo{updateOut: &dynamodb.UpdateItemOutput{Attributes: updated}}
		repo := NewCatalogDynamoRepository[entities.InventoryItem](f, testTables)

		item, err := repo.Increment(context.Background(), "i1", "quantity", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Quantity != 5 {
			t.Fatalf("expected 5, got %d", item.Quantity)
		}
		if aws.ToString(f.lastUpdate.ConditionExpression) != "attribute_exists(#id)" {
			t.Fatalf("positive delta must not carry a floor condition")
		}
		if aws.ToString(f.lastUpdate.UpdateExpression) != "SET #updated_at = :now ADD #attr :delta" {
			t.Fatalf("unexpected update expression %s", aws.ToString(f.lastUpdate.UpdateExpression))
		}
		if _, ok := f.lastUpdate.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberS); !ok {
			t.Fatalf("expected updated_at to be set")
		}
	})

	t.Run("below zero", func(t *testing.T) {
		f := &fakeDynamo{
			updateErr: &types.ConditionalCheckFailedException{Message: aws.String("floor")},
			getOut:    &dynamodb.GetItemOutput{Item: stored},
		}
		repo := NewCatalogDynamoRepository[entities.InventoryItem](f, testTables)

		_, err := repo.Increment(context.Background(), "i1", "quantity", -3)
		if !errors.Is(err, interfaces.ErrConditionFailed) {
			t.Fatalf("expected ErrConditionFailed, got %v", err)
		}
		if got := f.lastUpdate.ExpressionAttributeValues[":floor"].(*types.AttributeValueMemberN).Value; got != "3" {
			t.Fatalf("unexpected floor %s", got)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		f := &fakeDynamo{updateErr: &types.ConditionalCheckFailedException{Message: aws.String("gone")}}
		repo := NewCatalogDynamoRepository[entities.InventoryItem](f, testTables)

		item, err := repo.Increment(context.Background(), "nope", "quantity", -1)
		if err != nil || item.ID != "" {
			t.Fatalf("expected zero record and no error, got %+v %v", item, err)
		}
	})
}
