package mock

import (
	"io/ioutil"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/logarc/logarc/internal/adaptor"
)

// NewS3Client is constructor of S3 Mock
func NewS3Client(region string) adaptor.S3Client {
	return &S3Client{
		data: mockS3ClientDataStore,
	}
}

// NewS3ClientWithErr returns a factory of S3 mock that fails every call
// with err. Tests use it to inject upload failures.
func NewS3ClientWithErr(err error) adaptor.S3ClientFactory {
	return func(region string) adaptor.S3Client {
		return &S3Client{err: err}
	}
}

type s3Entry struct {
	body         []byte
	lastModified time.Time
}

// S3Client is on memory S3Client mock. The data store is shared over all
// instances and guarded by a package mutex because archiver workers call
// it concurrently; tests isolate each other by uuid bucket names.
type S3Client struct {
	data map[string]map[string]*s3Entry
	err  error
}

var (
	mockS3ClientMutex     sync.Mutex
	mockS3ClientDataStore = map[string]map[string]*s3Entry{}
)

// GetObjectBody is a test accessor of stored object body.
func GetObjectBody(bucket, key string) ([]byte, bool) {
	mockS3ClientMutex.Lock()
	defer mockS3ClientMutex.Unlock()

	bkt, ok := mockS3ClientDataStore[bucket]
	if !ok {
		return nil, false
	}
	entry, ok := bkt[key]
	if !ok {
		return nil, false
	}
	return entry.body, true
}

// SetObjectModTime is a test accessor to age stored objects.
func SetObjectModTime(bucket, key string, ts time.Time) bool {
	mockS3ClientMutex.Lock()
	defer mockS3ClientMutex.Unlock()

	bkt, ok := mockS3ClientDataStore[bucket]
	if !ok {
		return false
	}
	entry, ok := bkt[key]
	if !ok {
		return false
	}
	entry.lastModified = ts
	return true
}

// PutObjectWithContext of S3Client saves body to memory
func (x *S3Client) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if x.err != nil {
		return nil, x.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := ioutil.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	mockS3ClientMutex.Lock()
	defer mockS3ClientMutex.Unlock()

	bucket, ok := x.data[*input.Bucket]
	if !ok {
		bucket = map[string]*s3Entry{}
		x.data[*input.Bucket] = bucket
	}

	bucket[*input.Key] = &s3Entry{
		body:         raw,
		lastModified: time.Now().UTC(),
	}

	return &s3.PutObjectOutput{}, nil
}

// HeadObjectWithContext of S3Client returns size of a stored object
func (x *S3Client) HeadObjectWithContext(ctx aws.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error) {
	if x.err != nil {
		return nil, x.err
	}

	mockS3ClientMutex.Lock()
	defer mockS3ClientMutex.Unlock()

	entry, err := x.lookup(*input.Bucket, *input.Key)
	if err != nil {
		return nil, err
	}

	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(entry.body))),
		LastModified:  aws.Time(entry.lastModified),
	}, nil
}

// ListObjectsV2WithContext of S3Client lists stored objects by prefix in
// key order, same as S3 does.
func (x *S3Client) ListObjectsV2WithContext(ctx aws.Context, input *s3.ListObjectsV2Input, opts ...request.Option) (*s3.ListObjectsV2Output, error) {
	if x.err != nil {
		return nil, x.err
	}

	mockS3ClientMutex.Lock()
	defer mockS3ClientMutex.Unlock()

	output := &s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(false),
	}

	bucket, ok := x.data[*input.Bucket]
	if !ok {
		return output, nil
	}

	prefix := aws.StringValue(input.Prefix)
	keys := []string{}
	for key := range bucket {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := bucket[key]
		output.Contents = append(output.Contents, &s3.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(entry.body))),
			LastModified: aws.Time(entry.lastModified),
		})
	}

	return output, nil
}

// DeleteObjectsWithContext of S3Client removes stored objects
func (x *S3Client) DeleteObjectsWithContext(ctx aws.Context, input *s3.DeleteObjectsInput, opts ...request.Option) (*s3.DeleteObjectsOutput, error) {
	if x.err != nil {
		return nil, x.err
	}

	mockS3ClientMutex.Lock()
	defer mockS3ClientMutex.Unlock()

	bucket, ok := x.data[*input.Bucket]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchBucket, "no such bucket", nil)
	}

	for _, obj := range input.Delete.Objects {
		if _, ok := bucket[*obj.Key]; !ok {
			return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
		}

		delete(bucket, *obj.Key)
	}

	return &s3.DeleteObjectsOutput{}, nil
}

// lookup must be called with mockS3ClientMutex held.
func (x *S3Client) lookup(bucket, key string) (*s3Entry, error) {
	bkt, ok := x.data[bucket]
	if !ok {
		return nil, awserr.New("NotFound", "bucket not found", nil)
	}
	entry, ok := bkt[key]
	if !ok {
		return nil, awserr.New("NotFound", "key not found", nil)
	}
	return entry, nil
}
