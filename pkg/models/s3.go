package models

import "time"

// S3Object points an object on S3.
type S3Object struct {
	Region string `json:"region"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// NewS3Object is constructor of S3Object.
func NewS3Object(region, bucket, key string) S3Object {
	return S3Object{
		Region: region,
		Bucket: bucket,
		Key:    key,
	}
}

// Path renders the object as s3:// URI for logs and reports.
func (x S3Object) Path() string {
	return "s3://" + x.Bucket + "/" + x.Key
}

// S3ObjectMeta is S3Object with listing metadata.
type S3ObjectMeta struct {
	S3Object
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
