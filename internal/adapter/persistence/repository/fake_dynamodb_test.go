package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo records the last request of each kind and answers with canned
// outputs.
type fakeDynamo struct {
	getOut *dynamodb.GetItemOutput
	// getOuts, when set, answers successive GetItem calls in order.
	getOuts   []*dynamodb.GetItemOutput
	updateOut *dynamodb.UpdateItemOutput
	queryOut  *dynamodb.QueryOutput
	scanPages []*dynamodb.ScanOutput

	putErr    error
	updateErr error
	txErr     error

	lastGet    *dynamodb.GetItemInput
	gets       []*dynamodb.GetItemInput
	lastPut    *dynamodb.PutItemInput
	lastUpdate *dynamodb.UpdateItemInput
	lastQuery  *dynamodb.QueryInput
	lastScan   *dynamodb.ScanInput
	lastTx     *dynamodb.TransactWriteItemsInput
	scanCalls  int
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGet = in
	f.gets = append(f.gets, in)
	if len(f.getOuts) > 0 {
		out := f.getOuts[0]
		f.getOuts = f.getOuts[1:]
		return out, nil
	}
	if f.getOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.getOut, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.lastUpdate = in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return f.updateOut, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.lastQuery = in
	if f.queryOut == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.queryOut, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.lastScan = in
	if f.scanCalls >= len(f.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}
	page := f.scanPages[f.scanCalls]
	f.scanCalls++
	return page, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.lastTx = in
	return &dynamodb.TransactWriteItemsOutput{}, f.txErr
}

// cancelled builds the error DynamoDB returns when the transaction items at
// the given positions fail their condition.
func cancelled(size int, failed ...int) error {
	reasons := make([]types.CancellationReason, size)
	for i := range reasons {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
	}
	for _, i := range failed {
		reasons[i] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
	}
	return &types.TransactionCanceledException{
		Message:             aws.String("Transaction cancelled"),
		CancellationReasons: reasons,
	}
}

var testTables = Tables{
	Orders:        "orders",
	Estimates:     "estimates",
	Payments:      "payments",
	Counters:      "counters",
	CatalogPrefix: "bizdesk_",
}
