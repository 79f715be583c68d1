package sync

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Destination_Write(t *testing.T) {
	fake := &fakePutter{}
	dest := &S3Destination{client: fake, bucket: "backups", key: "folio/backup.jsonl"}

	if err := dest.Write(context.Background(), []byte("line\n")); err != nil {
		t.Fatal(err)
	}
	if aws.ToString(fake.in.Bucket) != "backups" || aws.ToString(fake.in.Key) != "folio/backup.jsonl" {
		t.Errorf("put = %s/%s", aws.ToString(fake.in.Bucket), aws.ToString(fake.in.Key))
	}
	if aws.ToString(fake.in.ContentType) != "application/x-ndjson" {
		t.Errorf("content type = %q", aws.ToString(fake.in.ContentType))
	}
	if string(fake.body) != "line\n" || aws.ToInt64(fake.in.ContentLength) != 5 {
		t.Errorf("body = %q, length = %d", fake.body, aws.ToInt64(fake.in.ContentLength))
	}
	if dest.Name() != "s3://backups/folio/backup.jsonl" {
		t.Errorf("Name() = %q", dest.Name())
	}
}

func TestS3Destination_WriteError(t *testing.T) {
	cause := errors.New("access denied")
	dest := &S3Destination{client: &fakePutter{err: cause}, bucket: "b", key: "k"}
	if err := dest.Write(context.Background(), nil); !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped %v", err, cause)
	}
}
