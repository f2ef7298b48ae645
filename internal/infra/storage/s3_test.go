package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, f.err
}

func TestPut(t *testing.T) {
	f := &fakePutter{}
	s := newS3Store(f, S3Config{Bucket: "avatars", Region: "eu-west-1", PublicBaseURL: "https://cdn.example.com/"})

	url, err := s.Put(context.Background(), "avatars/u1.webp", "image/webp", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/avatars/u1.webp" {
		t.Fatalf("url = %q", url)
	}
	if aws.ToString(f.in.Bucket) != "avatars" || aws.ToString(f.in.ContentType) != "image/webp" {
		t.Fatalf("input = %+v", f.in)
	}
}

func TestPutDefaultURL(t *testing.T) {
	s := newS3Store(&fakePutter{}, S3Config{Bucket: "b", Region: "us-east-1"})

	url, err := s.Put(context.Background(), "k.webp", "image/webp", nil)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://b.s3.us-east-1.amazonaws.com/k.webp" {
		t.Fatalf("url = %q", url)
	}
}

func TestPutError(t *testing.T) {
	boom := errors.New("denied")
	s := newS3Store(&fakePutter{err: boom}, S3Config{Bucket: "b"})

	if _, err := s.Put(context.Background(), "k", "image/webp", nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
