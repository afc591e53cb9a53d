package objectstorage

import (
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/valyala/gozstd"
)

// Download returns the decompressed body stored under key.
func (st *Storage) Download(key string) (io.ReadCloser, error) {
	resp, err := st.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key + ".zstd"),
	})
	if err != nil {
		return nil, err
	}

	return struct {
		io.Reader
		io.Closer
	}{
		Reader: gozstd.NewReader(resp.Body),
		Closer: resp.Body,
	}, nil
}
