package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ObjectStoreはSupabase Storage互換のRESTバケットを叩くクライアント。
// PUT   {base}/storage/v1/object/{bucket}/{key}
// DELETE{base}/storage/v1/object/{bucket}/{key}
// 公開URLは {base}/storage/v1/object/public/{bucket}/{key}
type ObjectStore struct {
	baseURL string
	key     string
	bucket  string
	client  *http.Client
}

func NewObjectStore(baseURL, key, bucket string) *ObjectStore {
	return &ObjectStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		bucket:  bucket,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *ObjectStore) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, key)
}

func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(key), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage put: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage put: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (s *ObjectStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage remove: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("storage remove: status %d", resp.StatusCode)
	}
	return nil
}
