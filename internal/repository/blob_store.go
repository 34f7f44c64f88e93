package repository

import "context"

// BlobStoreは画像バケットへの書き込みと公開URLの解決を約束。
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
}
