// Package archive stores full simulation snapshots in object storage (S3
// in production, a local directory for dev). Archival is best-effort side
// output; it never gates the request path.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fincast/fincast/internal/models"
)

// Archiver persists a computed simulation snapshot.
type Archiver interface {
	ArchiveSimulation(ctx context.Context, sim models.Simulation) error
}

// S3Archiver writes simulation JSON to paths like:
//
//	s3://<bucket>/<prefix>/simulations/YYYY/MM/DD/<id>.json
type S3Archiver struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

// NewS3Archiver builds an archiver from the default AWS config chain
// (AWS_REGION, AWS_PROFILE, static credentials, etc.).
func NewS3Archiver(ctx context.Context, bucket, prefix string) (*S3Archiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Archiver{
		bucket:   bucket,
		prefix:   prefix,
		uploader: manager.NewUploader(client),
	}, nil
}

func (a *S3Archiver) ArchiveSimulation(ctx context.Context, sim models.Simulation) error {
	body, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("encode simulation: %w", err)
	}
	key := objectKey(a.prefix, sim, time.Now().UTC())
	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload simulation %s: %w", sim.ID, err)
	}
	return nil
}

func objectKey(prefix string, sim models.Simulation, now time.Time) string {
	ts := sim.UpdatedAt
	if ts.IsZero() {
		ts = now
	}
	year, month, day := ts.Date()
	return path.Join(prefix, "simulations",
		fmt.Sprintf("%04d/%02d/%02d", year, int(month), day),
		sim.ID.String()+".json")
}
