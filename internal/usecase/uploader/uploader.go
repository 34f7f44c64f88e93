package uploader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	repo "kaizen/internal/repository"

	"github.com/rs/zerolog"
)

// 呼び出し側はファイル未選択ならUploadを呼ばない約束。
var ErrNoData = errors.New("no image data")

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// Pipelineは画像バイト列をバケットへ置き、公開URLを返す。
// キーは「生成ID + 元ファイルの拡張子」で衝突を避けつつ
// Content-Type推定を効かせる。
type Pipeline struct {
	store  repo.BlobStore
	idGen  IDGenerator
	logger zerolog.Logger
}

// DI
func NewPipeline(store repo.BlobStore, idGen IDGenerator, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		idGen:  idGen,
		logger: logger,
	}
}

func (p *Pipeline) Upload(ctx context.Context, data []byte, originalFilename string) (url string, key string, err error) {
	if len(data) == 0 {
		return "", "", ErrNoData
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	key = p.idGen.NewID() + ext

	contentType := http.DetectContentType(data)
	if err := p.store.Put(ctx, key, data, contentType); err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("blob put failed")
		return "", "", fmt.Errorf("upload image: %w", err)
	}

	url = p.store.PublicURL(key)
	if url == "" {
		return "", "", fmt.Errorf("upload image: no public url for key %s", key)
	}
	return url, key, nil
}

// Removeは書き込み後にカタログ側が失敗したときの後始末。
func (p *Pipeline) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := p.store.Remove(ctx, key); err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("blob remove failed")
		return err
	}
	return nil
}
