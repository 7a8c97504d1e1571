package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPublicURL(t *testing.T) {
	s, err := New(context.Background(), Config{
		Endpoint:  "http://localhost:9000/",
		Region:    "us-east-1",
		Bucket:    "article-images",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	url := s.GetPublicURL("articles/2025/07/04/abc.png")
	require.Equal(t, "http://localhost:9000/article-images/articles/2025/07/04/abc.png", url)
}

func TestGetPublicURL_SeparateCDNBase(t *testing.T) {
	s, err := New(context.Background(), Config{
		Endpoint:      "http://localhost:9000",
		Region:        "us-east-1",
		Bucket:        "article-images",
		PublicBaseURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	url := s.GetPublicURL("/articles/a.png")
	require.Equal(t, "https://cdn.example.com/article-images/articles/a.png", url)
}
