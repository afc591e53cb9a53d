// Package objectstorage archives raw message bodies to S3-compatible
// storage. Records keep only a short excerpt; the full text lives here,
// zstd-compressed.
package objectstorage

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/masa23/jobmaild/config"
)

type Storage struct {
	client *s3.S3
	bucket string
}

func New(conf config.ObjectStorage) (*Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(conf.Region),
		Endpoint: aws.String(conf.Endpoint),
		Credentials: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.StaticProvider{
				Value: credentials.Value{
					AccessKeyID:     conf.AccessKey,
					SecretAccessKey: conf.SecretKey,
				},
			},
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Storage{client: s3.New(sess), bucket: conf.Bucket}, nil
}

// GenerateObjectKey builds a key from the current time.
// YYYY/MM/DD/HH/mm/ss/UUID
func GenerateObjectKey() string {
	now := time.Now()
	return fmt.Sprintf("%04d/%02d/%02d/%02d/%02d/%02d/%s",
		now.Year(), now.Month(), now.Day(),
		now.Hour(), now.Minute(), now.Second(),
		uuid.New().String())
}
