package manifest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the subset of dynamodb.Client operations DynamoDBStore
// needs, grounded on the teacher's blobstore/s3.DDBClient.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBStore records manifest entries as monotonically versioned items
// under a single partition, grounded on the teacher's
// blobstore/s3/ddb_commit_store.go commit log pattern: each Record call is
// a conditional put on the next version number, so concurrent writers
// never clobber each other's entries.
//
// Table schema:
//   - Partition key: base_key (string)
//   - Sort key: version (number)
type DynamoDBStore struct {
	client    DDBClient
	tableName string
	baseKey   string
}

// NewDynamoDBStore creates a DynamoDBStore keyed under baseKey within
// tableName.
func NewDynamoDBStore(client DDBClient, tableName, baseKey string) *DynamoDBStore {
	return &DynamoDBStore{client: client, tableName: tableName, baseKey: baseKey}
}

// Record commits e as the next version under baseKey.
func (s *DynamoDBStore) Record(ctx context.Context, e Entry) error {
	version, err := s.latestVersion(ctx)
	if err != nil {
		return err
	}
	item, err := entryToItem(e)
	if err != nil {
		return err
	}
	item["base_key"] = &types.AttributeValueMemberS{Value: s.baseKey}
	item["version"] = &types.AttributeValueMemberN{Value: strconv.FormatUint(version+1, 10)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		return fmt.Errorf("manifest: put dynamodb item: %w", err)
	}
	return nil
}

// List returns every entry recorded under baseKey, in ascending version
// order.
func (s *DynamoDBStore) List(ctx context.Context) ([]Entry, error) {
	resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_key = :k"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: s.baseKey},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: query dynamodb: %w", err)
	}

	entries := make([]Entry, 0, len(resp.Items))
	for _, item := range resp.Items {
		e, err := itemToEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *DynamoDBStore) latestVersion(ctx context.Context) (uint64, error) {
	resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_key = :k"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: s.baseKey},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, fmt.Errorf("manifest: query latest version: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, nil
	}
	versionAttr, ok := resp.Items[0]["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("manifest: invalid version attribute")
	}
	return strconv.ParseUint(versionAttr.Value, 10, 64)
}

func entryToItem(e Entry) (map[string]types.AttributeValue, error) {
	return map[string]types.AttributeValue{
		"key":          &types.AttributeValueMemberS{Value: e.Key},
		"n_queries":    &types.AttributeValueMemberN{Value: strconv.Itoa(e.NQueries)},
		"n_targets":    &types.AttributeValueMemberN{Value: strconv.Itoa(e.NTargets)},
		"input_format": &types.AttributeValueMemberS{Value: e.InputFormat},
		"size":         &types.AttributeValueMemberN{Value: strconv.FormatInt(e.Size, 10)},
		"created_at":   &types.AttributeValueMemberN{Value: strconv.FormatInt(e.CreatedAt, 10)},
	}, nil
}

func itemToEntry(item map[string]types.AttributeValue) (Entry, error) {
	var e Entry
	str := func(name string) (string, error) {
		v, ok := item[name].(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("manifest: missing string attribute %q", name)
		}
		return v.Value, nil
	}
	num := func(name string) (int64, error) {
		v, ok := item[name].(*types.AttributeValueMemberN)
		if !ok {
			return 0, fmt.Errorf("manifest: missing numeric attribute %q", name)
		}
		return strconv.ParseInt(v.Value, 10, 64)
	}

	key, err := str("key")
	if err != nil {
		return e, err
	}
	format, err := str("input_format")
	if err != nil {
		return e, err
	}
	nQueries, err := num("n_queries")
	if err != nil {
		return e, err
	}
	nTargets, err := num("n_targets")
	if err != nil {
		return e, err
	}
	size, err := num("size")
	if err != nil {
		return e, err
	}
	createdAt, err := num("created_at")
	if err != nil {
		return e, err
	}

	e.Key = key
	e.InputFormat = format
	e.NQueries = int(nQueries)
	e.NTargets = int(nTargets)
	e.Size = size
	e.CreatedAt = createdAt
	return e, nil
}
