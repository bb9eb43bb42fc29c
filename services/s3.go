package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/aionlabs/aion-admin/config"
	"github.com/aionlabs/aion-admin/errs"
)

const presignExpiry = 300 * time.Second

// S3Uploader hands out short-lived presigned PUT URLs so the browser can
// upload attachments directly to the bucket.
type S3Uploader struct {
	presign   *s3.PresignClient
	bucket    string
	region    string
	keyPrefix string
}

// NewS3Uploader builds the uploader from config. Returns nil (not an
// error) when S3 is not configured so the handler can report 500
// provider-not-configured at request time.
func NewS3Uploader(ctx context.Context, cfg map[string]string) (*S3Uploader, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	accessKey := config.GetString(cfg, "AWS_ACCESS_KEY_ID", "")
	secretKey := config.GetString(cfg, "AWS_SECRET_ACCESS_KEY", "")
	if bucket == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	region := config.GetString(cfg, "AWS_REGION", "us-east-1")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return &S3Uploader{
		presign:   s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		bucket:    bucket,
		region:    region,
		keyPrefix: config.GetString(cfg, "S3_KEY_PREFIX", "uploads"),
	}, nil
}

// PresignedUpload is what the client needs to PUT the file and where it
// will be readable afterwards.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// SignUpload presigns a PUT for one object. The key embeds a timestamp and
// a uuid so concurrent uploads of the same filename never collide.
func (u *S3Uploader) SignUpload(ctx context.Context, fileName, contentType string) (*PresignedUpload, error) {
	if u == nil {
		return nil, errs.NewProviderNotConfiguredError("S3")
	}

	key := fmt.Sprintf("%s/%d_%s_%s", u.keyPrefix, time.Now().Unix(), uuid.New().String(), SafeFileName(fileName))

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	signed, err := u.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, errs.NewStorageSigningError("S3", err)
	}

	return &PresignedUpload{
		UploadURL: signed.URL,
		PublicURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key),
		Key:       key,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SafeFileName strips anything that has no business in an object key.
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = unsafeFileChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "file"
	}
	return name
}
