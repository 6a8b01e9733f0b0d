package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/annlab/codec"
)

// ErrDuplicateReport is returned when an item for the same experiment and run_at exists.
var ErrDuplicateReport = errors.New("report already exists")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoDBSink puts one item per report.
//
// Table schema:
//   - Partition key: experiment (string)
//   - Sort key: run_at (number) - Unix milliseconds
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name annlab-reports \
//	  --attribute-definitions AttributeName=experiment,AttributeType=S AttributeName=run_at,AttributeType=N \
//	  --key-schema AttributeName=experiment,KeyType=HASH AttributeName=run_at,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DynamoDBSink struct {
	client    DDBClient
	tableName string
	codec     codec.Codec
}

// NewDynamoDBSink creates a sink writing to tableName.
func NewDynamoDBSink(client DDBClient, tableName string) *DynamoDBSink {
	return &DynamoDBSink{client: client, tableName: tableName, codec: codec.Default}
}

// Name returns "dynamodb".
func (s *DynamoDBSink) Name() string { return "dynamodb" }

// Write puts r as a new item. Existing items are never overwritten.
func (s *DynamoDBSink) Write(ctx context.Context, r *Report) error {
	payload, err := s.codec.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                s.item(r, payload),
		ConditionExpression: aws.String("attribute_not_exists(run_at)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrDuplicateReport
		}
		return fmt.Errorf("failed to put report to DynamoDB: %w", err)
	}
	return nil
}

func (s *DynamoDBSink) item(r *Report, payload []byte) map[string]types.AttributeValue {
	num := func(v string) types.AttributeValue { return &types.AttributeValueMemberN{Value: v} }
	str := func(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }

	return map[string]types.AttributeValue{
		"experiment":         str(r.Experiment),
		"run_at":             num(strconv.FormatInt(r.RunAt.UnixMilli(), 10)),
		"index":              str(r.Index),
		"base_rows":          num(strconv.Itoa(r.BaseRows)),
		"query_rows":         num(strconv.Itoa(r.QueryRows)),
		"dim":                num(strconv.Itoa(r.Dim)),
		"k":                  num(strconv.Itoa(r.K)),
		"recall":             num(strconv.FormatFloat(r.Recall, 'f', -1, 64)),
		"recall_at_k":        num(strconv.FormatFloat(r.RecallAtK, 'f', -1, 64)),
		"qps":                num(strconv.FormatFloat(r.QPS, 'f', -1, 64)),
		"build_duration_ms":  num(strconv.FormatInt(r.BuildDuration.Milliseconds(), 10)),
		"search_duration_ms": num(strconv.FormatInt(r.SearchDuration.Milliseconds(), 10)),
		"footprint_bytes":    num(strconv.FormatInt(r.FootprintBytes, 10)),
		"codec":              str(s.codec.Name()),
		"report":             &types.AttributeValueMemberB{Value: payload},
	}
}
