// Package storage holds downloaded year archives in S3-compatible object
// storage under archives/<year>.zip, so workers can ingest without hitting
// the agency's endpoint again.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/grantgraph/grantgraph/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const archivePrefix = "archives/"

func NewS3Client(ctx context.Context) *s3.Client {
	region := util.Env("AWS_REGION")
	endpoint := util.Env("AWS_ENDPOINT")
	accessKey := util.Env("AWS_ACCESS_KEY")
	secretKey := util.Env("AWS_SECRET_KEY")
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

func archiveKey(year int) string {
	return path.Join(archivePrefix, fmt.Sprintf("%d.zip", year))
}

// PutArchive uploads one year's zip.
func PutArchive(ctx context.Context, client *s3.Client, year int, body io.Reader) (string, error) {
	bucket := util.Env("AWS_BUCKET")
	key := archiveKey(year)
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive for %d: %v", year, err)
	}
	return key, nil
}

// GetArchive downloads one year's zip into memory. Archives are a few tens
// of megabytes at most, small enough to buffer whole.
func GetArchive(ctx context.Context, client *s3.Client, year int) ([]byte, error) {
	bucket := util.Env("AWS_BUCKET")
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(archiveKey(year)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get archive for %d: %v", year, err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("failed to read archive contents: %v", err)
	}
	return buf.Bytes(), nil
}

// ListArchiveYears lists the years with an uploaded archive, ascending.
func ListArchiveYears(ctx context.Context, client *s3.Client) ([]int, error) {
	bucket := util.Env("AWS_BUCKET")

	var years []int
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(archivePrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list archives: %v", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), archivePrefix)
			year, err := strconv.Atoi(strings.TrimSuffix(name, ".zip"))
			if err != nil {
				continue
			}
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}

// DeleteArchive removes one year's zip.
func DeleteArchive(ctx context.Context, client *s3.Client, year int) error {
	bucket := util.Env("AWS_BUCKET")
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(archiveKey(year)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete archive for %d: %v", year, err)
	}
	return nil
}
