package report

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		Experiment:     "sift 1M/hnsw",
		Index:          "flat",
		BaseRows:       1000,
		QueryRows:      10,
		Dim:            128,
		K:              10,
		BuildDuration:  1500 * time.Millisecond,
		SearchDuration: 20 * time.Millisecond,
		QPS:            500,
		Recall:         0.99,
		RecallAtK:      0.95,
		FootprintBytes: 512_020,
		FootprintMiB:   0.4883,
		RunAt:          time.Date(2026, 3, 1, 12, 30, 45, 123_000_000, time.UTC),
	}
}

func TestBlobSink(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	sink := NewBlobSink(store)
	r := sampleReport()

	require.NoError(t, sink.Write(ctx, r))

	key := "reports/sift_1M_hnsw-20260301T123045.123Z.json"
	assert.Equal(t, key, sink.Key(r))
	assert.Equal(t, []string{key}, store.Names(DefaultPrefix))

	got, err := sink.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestBlobSink_Options(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	sink := NewBlobSink(store, WithPrefix("runs/"), WithCodec(codec.JSON{}))
	r := sampleReport()
	r.Experiment = ""

	require.NoError(t, sink.Write(ctx, r))
	names := store.Names("runs/experiment-")
	require.Len(t, names, 1)

	blob, err := store.Open(ctx, names[0])
	require.NoError(t, err)
	defer blob.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(blob)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"recall_at_k": 0.95`)

	_, err = sink.Read(ctx, "runs/missing.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

// MockDDBClient is a mock implementation of the DDBClient interface.
type MockDDBClient struct {
	mock.Mock
}

func (m *MockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func TestDynamoDBSink(t *testing.T) {
	ctx := context.Background()
	client := new(MockDDBClient)
	sink := NewDynamoDBSink(client, "annlab-reports")
	r := sampleReport()

	client.On("PutItem", ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		if aws.ToString(in.TableName) != "annlab-reports" {
			return false
		}
		if aws.ToString(in.ConditionExpression) != "attribute_not_exists(run_at)" {
			return false
		}
		exp, ok := in.Item["experiment"].(*types.AttributeValueMemberS)
		if !ok || exp.Value != r.Experiment {
			return false
		}
		runAt, ok := in.Item["run_at"].(*types.AttributeValueMemberN)
		if !ok || runAt.Value != "1772368245123" {
			return false
		}
		payload, ok := in.Item["report"].(*types.AttributeValueMemberB)
		if !ok {
			return false
		}
		var decoded Report
		return codec.Default.Unmarshal(payload.Value, &decoded) == nil && decoded.Recall == r.Recall
	})).Return(&dynamodb.PutItemOutput{}, nil).Once()

	require.NoError(t, sink.Write(ctx, r))
	client.AssertExpectations(t)
}

func TestDynamoDBSink_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate", func(t *testing.T) {
		client := new(MockDDBClient)
		client.On("PutItem", ctx, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")})

		err := NewDynamoDBSink(client, "t").Write(ctx, sampleReport())
		assert.ErrorIs(t, err, ErrDuplicateReport)
	})

	t.Run("service", func(t *testing.T) {
		boom := errors.New("throttled")
		client := new(MockDDBClient)
		client.On("PutItem", ctx, mock.Anything).Return(nil, boom)

		err := NewDynamoDBSink(client, "t").Write(ctx, sampleReport())
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrDuplicateReport)
	})
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, sink.Write(context.Background(), sampleReport()))
	assert.Contains(t, buf.String(), "experiment report")
	assert.Contains(t, buf.String(), "recall=0.99")
}

type failingSink struct{ err error }

func (f failingSink) Name() string                          { return "failing" }
func (f failingSink) Write(context.Context, *Report) error { return f.err }

func TestWriteAll(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	errA := errors.New("a")
	errB := errors.New("b")

	err := WriteAll(ctx, sampleReport(), failingSink{errA}, NewBlobSink(store), failingSink{errB})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, store.Names(""), 1, "a failing sink must not stop the others")

	assert.NoError(t, WriteAll(ctx, sampleReport()))
}

func TestReportString(t *testing.T) {
	s := sampleReport().String()
	assert.Contains(t, s, "recall=0.9900")
	assert.Contains(t, s, "build=1.5s")
}
