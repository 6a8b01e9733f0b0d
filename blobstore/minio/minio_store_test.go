package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) StatObject(ctx context.Context, bucket, object string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, object)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *mockClient) GetObject(ctx context.Context, bucket, object string, _ minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucket, object)
	obj, _ := args.Get(0).(*minio.Object)
	return obj, args.Error(1)
}

func (m *mockClient) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucket, object, string(data), size)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func TestStore_OpenNotFound(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "datasets", "sift1m/")

	client.On("StatObject", mock.Anything, "datasets", "sift1m/base.fvecs").
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}).Once()

	_, err := store.Open(context.Background(), "base.fvecs")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	client.AssertExpectations(t)
}

func TestStore_OpenGetError(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "datasets", "")
	boom := errors.New("connection reset")

	client.On("StatObject", mock.Anything, "datasets", "q.fvecs").Return(minio.ObjectInfo{Size: 8}, nil).Once()
	client.On("GetObject", mock.Anything, "datasets", "q.fvecs").Return(nil, boom).Once()

	_, err := store.Open(context.Background(), "q.fvecs")
	assert.ErrorIs(t, err, boom)
	client.AssertExpectations(t)
}

func TestStore_Put(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "reports", "runs")

	client.On("PutObject", mock.Anything, "reports", "runs/r1.json", `{"recall":0.9}`, int64(14)).
		Return(minio.UploadInfo{}, nil).Once()

	require.NoError(t, store.Put(context.Background(), "r1.json", []byte(`{"recall":0.9}`)))
	client.AssertExpectations(t)
}

// TestMinioStore_Integration requires a running MinIO instance.
func TestMinioStore_Integration(t *testing.T) {
	store, err := Dial("localhost:9000", "minioadmin", "minioadmin", false, "test-annlab", "it/")
	require.NoError(t, err)

	ctx := context.Background()
	client := store.client.(*minio.Client)
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, "test-annlab")
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, "test-annlab", minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())
	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
