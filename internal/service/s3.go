package service

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/logarc/logarc/internal"
	"github.com/logarc/logarc/internal/adaptor"
	"github.com/logarc/logarc/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

const (
	// DeleteObjects can have a list of up to 1000 keys
	// https://docs.aws.amazon.com/AmazonS3/latest/API/API_DeleteObjects.html
	maxNumberOfS3DeletableObject = 1000
)

// S3Service is accessor to S3
type S3Service struct {
	newS3 adaptor.S3ClientFactory
}

// NewS3Service is constructor of S3Service
func NewS3Service(newS3 adaptor.S3ClientFactory) *S3Service {
	return &S3Service{
		newS3: newS3,
	}
}

// UploadFileToS3 uploads a local file to S3 and verifies the result with
// HeadObject. Until the remote size matches the local one the caller must
// not treat the local file as disposable. Upload to an existing key
// overwrites it, so retrying the same unit is safe.
func (x *S3Service) UploadFileToS3(ctx context.Context, filePath string, dst models.S3Object, storageClass string) error {
	fd, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "Fail to open a parquet file: %s", filePath)
	}
	defer fd.Close()

	stat, err := fd.Stat()
	if err != nil {
		return errors.Wrapf(err, "Fail to stat a parquet file: %s", filePath)
	}

	client := x.newS3(dst.Region)
	input := &s3.PutObjectInput{
		Body:   fd,
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(dst.Key),
	}
	if storageClass != "" {
		input.StorageClass = aws.String(storageClass)
	}

	if _, err := client.PutObjectWithContext(ctx, input); err != nil {
		return errors.Wrapf(err, "Fail to upload a parquet file: %s", dst.Path())
	}

	remoteSize, err := x.headObjectSize(ctx, client, dst)
	if err != nil {
		return errors.Wrapf(err, "Fail to verify uploaded object: %s", dst.Path())
	}
	if remoteSize != stat.Size() {
		return fmt.Errorf("Uploaded object size mismatch: %s has %d bytes, local file has %d bytes",
			dst.Path(), remoteSize, stat.Size())
	}

	logger.WithFields(logrus.Fields{
		"bucket": dst.Bucket,
		"key":    dst.Key,
		"size":   stat.Size(),
	}).Debug("Uploaded a parquet file")

	return nil
}

// Exists returns true when the object exists on S3.
func (x *S3Service) Exists(ctx context.Context, obj models.S3Object) (bool, error) {
	client := x.newS3(obj.Region)

	if _, err := client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "Fail to head object: %s", obj.Path())
	}

	return true, nil
}

// ListObjects returns metadata of all objects under base.Key as prefix.
func (x *S3Service) ListObjects(ctx context.Context, base models.S3Object) ([]*models.S3ObjectMeta, error) {
	client := x.newS3(base.Region)

	var metas []*models.S3ObjectMeta
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(base.Bucket),
		Prefix: aws.String(base.Key),
	}

	for {
		resp, err := client.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return nil, errors.Wrapf(err, "Fail to list objects: %s", base.Path())
		}

		for _, obj := range resp.Contents {
			metas = append(metas, &models.S3ObjectMeta{
				S3Object:     models.NewS3Object(base.Region, base.Bucket, aws.StringValue(obj.Key)),
				Size:         aws.Int64Value(obj.Size),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}

		if !aws.BoolValue(resp.IsTruncated) {
			break
		}
		input.ContinuationToken = resp.NextContinuationToken
	}

	return metas, nil
}

// DeleteS3Objects is wrapper of s3.DeleteObjects with chunking by the API
// limit of 1000 keys per call.
func (x *S3Service) DeleteS3Objects(ctx context.Context, objects []*models.S3Object) error {
	if len(objects) == 0 {
		logger.Warn("No target for DeleteObjects")
		return nil
	}

	logger.WithField("len(objects)", len(objects)).Debug("Try to delete objects")

	var objectIDs []*s3.ObjectIdentifier
	for i := range objects {
		if objects[i].Bucket != objects[0].Bucket {
			return fmt.Errorf("Multiple buckets are not allowed: %s and %s", objects[i].Bucket, objects[0].Bucket)
		}

		objectIDs = append(objectIDs, &s3.ObjectIdentifier{Key: &objects[i].Key})
	}

	client := x.newS3(objects[0].Region)

	for s := 0; s < len(objectIDs); s += maxNumberOfS3DeletableObject {
		end := len(objectIDs)
		if s+maxNumberOfS3DeletableObject < len(objectIDs) {
			end = s + maxNumberOfS3DeletableObject
		}

		input := s3.DeleteObjectsInput{
			Bucket: &objects[0].Bucket,
			Delete: &s3.Delete{
				Objects: objectIDs[s:end],
			},
		}

		if _, err := client.DeleteObjectsWithContext(ctx, &input); err != nil {
			return errors.Wrap(err, "Fail to delete objects")
		}
	}

	return nil
}

func (x *S3Service) headObjectSize(ctx context.Context, client adaptor.S3Client, obj models.S3Object) (int64, error) {
	resp, err := client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return 0, err
	}

	return aws.Int64Value(resp.ContentLength), nil
}

// HeadObject of real S3 returns 404 with code "NotFound" instead of
// NoSuchKey.
func isNotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case "NotFound", s3.ErrCodeNoSuchKey:
			return true
		}
	}
	return false
}
