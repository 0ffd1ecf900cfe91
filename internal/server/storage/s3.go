// Package storage issues presigned S3 URLs for avatar uploads and builds the
// public URLs stored on profiles.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/linkfolio/internal/server/config"
	"github.com/google/uuid"
)

// PresignExpiry bounds how long an issued URL stays usable.
const PresignExpiry = 15 * time.Minute

const avatarPrefix = "avatars/"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// S3Store talks to an S3-compatible backend (MinIO in development).
type S3Store struct {
	region        string
	user          string
	password      string
	bucket        string
	baseEndpoint  string
	publicBaseURL string
}

func NewS3Store(cfg *sc.Config) *S3Store {
	return &S3Store{
		region:        cfg.S3Region,
		user:          cfg.S3RootUser,
		password:      cfg.S3RootPassword,
		bucket:        cfg.S3Bucket,
		baseEndpoint:  cfg.S3BaseEndpoint,
		publicBaseURL: cfg.S3PublicBaseURL,
	}
}

// AvatarKey returns a fresh object key under the owner's avatar prefix.
func AvatarKey(ownerID string) string {
	return fmt.Sprintf("%s%s/%v", avatarPrefix, ownerID, uuid.New())
}

// OwnsKey reports whether key was issued by AvatarKey for ownerID.
func OwnsKey(ownerID, key string) bool {
	prefix := avatarPrefix + ownerID + "/"
	if ownerID == "" || !strings.HasPrefix(key, prefix) {
		return false
	}
	rest := key[len(prefix):]
	return rest != "" && !strings.Contains(rest, "/") && !strings.Contains(rest, "..")
}

func (s *S3Store) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.user,
			s.password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.baseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a URL the client can PUT the object to. A non-empty
// contentType is signed and must be sent with the upload.
func (s *S3Store) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.bucket
	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PublicURL is the address profiles link to for key.
func (s *S3Store) PublicURL(key string) string {
	return strings.TrimRight(s.publicBaseURL, "/") + "/" + key
}
