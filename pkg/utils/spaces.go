package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"resume-builder/internal/config"
	"resume-builder/internal/logging"
	"resume-builder/internal/logging/types"
)

// SpacesClient wraps the S3 client for DigitalOcean Spaces operations
type SpacesClient struct {
	client     *s3.S3
	bucketName string
	bucketURL  string
	cdnURL     string
	region     string
	logger     types.Logger
}

// NewSpacesClient creates a new DigitalOcean Spaces client
func NewSpacesClient(cfg *config.Config) (*SpacesClient, error) {
	logger := logging.GetGlobalLogger()
	spaces := cfg.DigitalOcean.Spaces

	if spaces.AccessKeyID == "" || spaces.AccessKeySecret == "" {
		return nil, fmt.Errorf("DigitalOcean Spaces credentials are required")
	}
	if spaces.BucketName == "" {
		return nil, fmt.Errorf("DigitalOcean Spaces bucket name is required")
	}

	endpoint := fmt.Sprintf("https://%s.digitaloceanspaces.com", spaces.Region)

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			spaces.AccessKeyID,
			spaces.AccessKeySecret,
			"",
		),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(spaces.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DigitalOcean Spaces session: %w", err)
	}

	logger.Info("DigitalOcean Spaces client initialized", map[string]interface{}{
		"bucket_name": spaces.BucketName,
		"region":      spaces.Region,
		"endpoint":    endpoint,
	})

	return &SpacesClient{
		client:     s3.New(sess),
		bucketName: spaces.BucketName,
		bucketURL:  spaces.BucketURL,
		cdnURL:     spaces.CDNEndpoint,
		region:     spaces.Region,
		logger:     logger,
	}, nil
}

// ExportObjectKey is where an exported resume for a session is stored
func ExportObjectKey(sessionID, filename string) string {
	return fmt.Sprintf("resumes/exports/%s/%s", sessionID, filename)
}

// UploadResumePDF stores an exported resume and returns its public URL.
// Earlier exports of the same session are removed first.
func (sc *SpacesClient) UploadResumePDF(ctx context.Context, sessionID, filename string, pdf []byte) (string, error) {
	objectKey := ExportObjectKey(sessionID, filename)

	sc.logger.Info("Uploading resume export to DigitalOcean Spaces", map[string]interface{}{
		"session_id": sessionID,
		"object_key": objectKey,
		"size_bytes": len(pdf),
	})

	if err := sc.deleteExistingExports(ctx, sessionID); err != nil {
		sc.logger.Warn("Failed to delete existing exports, continuing with upload", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	_, err := sc.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(sc.bucketName),
		Key:                aws.String(objectKey),
		Body:               bytes.NewReader(pdf),
		ContentType:        aws.String("application/pdf"),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
		ACL:                aws.String("public-read"),
	})
	if err != nil {
		sc.logger.Error("Failed to upload resume export to DigitalOcean Spaces", map[string]interface{}{
			"session_id": sessionID,
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("failed to upload resume export: %w", err)
	}

	url := sc.objectURL(objectKey)
	sc.logger.Info("Resume export uploaded successfully", map[string]interface{}{
		"session_id": sessionID,
		"object_key": objectKey,
		"export_url": url,
	})
	return url, nil
}

// objectURL prefers the CDN, then the bucket URL, then the regional default
func (sc *SpacesClient) objectURL(objectKey string) string {
	if sc.cdnURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(sc.cdnURL, "/"), objectKey)
	}
	if sc.bucketURL != "" {
		base := strings.TrimRight(sc.bucketURL, "/")
		if !strings.HasPrefix(base, "https://") {
			base = "https://" + base
		}
		return fmt.Sprintf("%s/%s", base, objectKey)
	}
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", sc.bucketName, sc.region, objectKey)
}

func (sc *SpacesClient) deleteExistingExports(ctx context.Context, sessionID string) error {
	prefix := fmt.Sprintf("resumes/exports/%s/", sessionID)

	listResult, err := sc.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(sc.bucketName),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return fmt.Errorf("failed to list existing exports: %w", err)
	}

	for _, obj := range listResult.Contents {
		_, err := sc.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(sc.bucketName),
			Key:    obj.Key,
		})
		if err != nil {
			sc.logger.Warn("Failed to delete existing export object", map[string]interface{}{
				"session_id": sessionID,
				"object_key": aws.StringValue(obj.Key),
				"error":      err.Error(),
			})
		}
	}
	return nil
}

// IsHealthy checks if the Spaces client can communicate with the service
func (sc *SpacesClient) IsHealthy(ctx context.Context) bool {
	_, err := sc.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(sc.bucketName),
	})
	if err != nil {
		sc.logger.Error("DigitalOcean Spaces health check failed", map[string]interface{}{
			"bucket_name": sc.bucketName,
			"error":       err.Error(),
		})
		return false
	}
	return true
}
