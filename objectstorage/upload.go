package objectstorage

import (
	"bytes"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/valyala/gozstd"
)

// Archive compresses and uploads a message body under a freshly
// generated key and returns that key.
func (st *Storage) Archive(r io.Reader) (string, error) {
	key := GenerateObjectKey()
	if err := st.upload(key, r); err != nil {
		return "", err
	}
	return key, nil
}

// ToDo: buffers the whole compressed body in memory
func (st *Storage) upload(key string, r io.Reader) error {
	var buf bytes.Buffer
	zw := gozstd.NewWriter(&buf)
	if _, err := io.Copy(zw, r); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	_, err := st.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(key + ".zstd"),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/zstd"),
	})
	return err
}
