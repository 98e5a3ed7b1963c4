// Package records mirrors registered users into a DynamoDB table. The table
// holds one item per user keyed by id; writes are unconditional upserts and
// reads are single-page scans.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmarquez/usermirror/internal/logging"
	"github.com/dmarquez/usermirror/internal/server/users"
)

// DynamoAPI is the subset of the DynamoDB client used by the store.
// *dynamodb.Client satisfies it; tests inject fakes.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	ListTables(ctx context.Context, in *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type record struct {
	ID    string `dynamodbav:"id"`
	Email string `dynamodbav:"email"`
}

type Store struct {
	api    DynamoAPI
	table  string
	logger logging.Logger
}

func NewStore(api DynamoAPI, table string, logger logging.Logger) *Store {
	return &Store{
		api:    api,
		table:  table,
		logger: logger.With("component", "records", "table", table),
	}
}

// Put upserts the user record. Duplicate ids overwrite silently; uniqueness
// is the key schema's business, not ours.
func (s *Store) Put(ctx context.Context, id, email string) error {
	item, err := attributevalue.MarshalMap(record{ID: id, Email: email})
	if err != nil {
		return fmt.Errorf("marshalling user record: %w", err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("putting user record: %w", err)
	}

	return nil
}

// ScanAll returns one page of user records. Tables larger than the scan page
// are truncated; this mirror is not expected to outgrow a page.
func (s *Store) ScanAll(ctx context.Context) ([]users.User, error) {
	out, err := s.api.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning user records: %w", err)
	}

	var recs []record
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshalling user records: %w", err)
	}

	result := make([]users.User, 0, len(recs))
	for _, r := range recs {
		result = append(result, users.User{Email: r.Email})
	}

	return result, nil
}

// EnsureTable creates the users table if it does not exist yet. Concurrent
// callers may race to create it; the loser's ResourceInUseException counts as
// success.
func (s *Store) EnsureTable(ctx context.Context) error {
	out, err := s.api.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	for _, name := range out.TableNames {
		if name == s.table {
			return nil
		}
	}

	s.logger.Info(ctx, "creating users table")

	_, err = s.api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("id"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("id"),
				KeyType:       types.KeyTypeHash,
			},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			// someone else created it first
			return nil
		}
		return fmt.Errorf("creating table: %w", err)
	}

	s.logger.Info(ctx, "users table created")
	return nil
}
