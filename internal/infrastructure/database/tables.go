package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bizdesk/internal/adapter/persistence/repository"
	"bizdesk/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableAdmin is the part of the DynamoDB API needed to bootstrap tables.
type TableAdmin interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// TableSpec is a table with a string hash key and optional string-keyed GSIs.
type TableSpec struct {
	Name    string
	HashKey string
	Indexes []string
}

// TableSpecs returns every table the repositories expect.
func TableSpecs(t repository.Tables) []TableSpec {
	specs := []TableSpec{
		{Name: t.Orders, HashKey: "id"},
		{Name: t.Estimates, HashKey: "id", Indexes: []string{"order_id"}},
		{Name: t.Payments, HashKey: "id", Indexes: []string{"order_id"}},
		{Name: t.Counters, HashKey: "name"},
	}
	for _, kind := range entities.CatalogKinds {
		specs = append(specs, TableSpec{Name: t.Catalog(kind.Collection), HashKey: "id"})
	}
	return specs
}

// EnsureTables creates any missing table. Existing tables are left untouched.
func EnsureTables(ctx context.Context, api TableAdmin, specs []TableSpec) error {
	for _, spec := range specs {
		_, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.Name)})
		if err == nil {
			continue
		}
		var nf *types.ResourceNotFoundException
		if !errors.As(err, &nf) {
			return fmt.Errorf("describe table %s: %w", spec.Name, err)
		}

		out, err := api.CreateTable(ctx, createTableInput(spec))
		if err != nil {
			return fmt.Errorf("create table %s: %w", spec.Name, err)
		}
		log.Printf("[database] created table %s", spec.Name)

		if out.TableDescription != nil && out.TableDescription.TableStatus == types.TableStatusActive {
			continue
		}
		waiter := dynamodb.NewTableExistsWaiter(api)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.Name)}, 2*time.Minute); err != nil {
			return fmt.Errorf("wait for table %s: %w", spec.Name, err)
		}
	}
	return nil
}

func createTableInput(spec TableSpec) *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String(spec.HashKey), AttributeType: types.ScalarAttributeTypeS},
	}
	var gsis []types.GlobalSecondaryIndex
	for _, attr := range spec.Indexes {
		attrs = append(attrs, types.AttributeDefinition{AttributeName: aws.String(attr), AttributeType: types.ScalarAttributeTypeS})
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName: aws.String(attr + "-index"),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(attr), KeyType: types.KeyTypeHash},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	return &dynamodb.CreateTableInput{
		TableName:              aws.String(spec.Name),
		AttributeDefinitions:   attrs,
		KeySchema:              []types.KeySchemaElement{{AttributeName: aws.String(spec.HashKey), KeyType: types.KeyTypeHash}},
		GlobalSecondaryIndexes: gsis,
		BillingMode:            types.BillingModePayPerRequest,
	}
}
