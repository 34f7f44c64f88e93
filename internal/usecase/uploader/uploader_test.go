package uploader_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kaizen/internal/usecase/uploader"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// メモリ実装のBlobStore
type memStore struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	baseURL string
}

func newMemStore() *memStore {
	return &memStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		baseURL: "https://cdn.example.com",
	}
}

func (s *memStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = append([]byte(nil), data...)
	s.types[key] = contentType
	return nil
}

func (s *memStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

func (s *memStore) Remove(ctx context.Context, key string) error {
	if _, ok := s.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(s.objects, key)
	return nil
}

type seqIDGen struct {
	n int
}

func (g *seqIDGen) NewID() string {
	g.n++
	return strings.Repeat("a", 8) + "-" + string(rune('0'+g.n))
}

func newPipeline(store *memStore) *uploader.Pipeline {
	return uploader.NewPipeline(store, &seqIDGen{}, zerolog.Nop())
}

// PNGヘッダ付きの適当なバイト列
func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), []byte("fake image payload")...)
}

func TestPipeline_Upload_PreservesExtension(t *testing.T) {
	store := newMemStore()
	p := newPipeline(store)

	url, key, err := p.Upload(context.Background(), pngBytes(), "MyPhoto.PNG")
	assert.NoError(t, err)

	// 拡張子は小文字化して引き継ぐ
	assert.True(t, strings.HasSuffix(key, ".png"), "key=%s", key)
	assert.Equal(t, store.PublicURL(key), url)
}

func TestPipeline_Upload_RoundTrip(t *testing.T) {
	store := newMemStore()
	p := newPipeline(store)

	data := pngBytes()
	_, key, err := p.Upload(context.Background(), data, "photo.png")
	assert.NoError(t, err)

	// 置いたバイト列がそのまま読める
	assert.Equal(t, data, store.objects[key])
}

func TestPipeline_Upload_UniqueKeys(t *testing.T) {
	store := newMemStore()
	p := newPipeline(store)

	_, key1, err := p.Upload(context.Background(), pngBytes(), "a.png")
	assert.NoError(t, err)
	_, key2, err := p.Upload(context.Background(), pngBytes(), "a.png")
	assert.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestPipeline_Upload_NoData(t *testing.T) {
	p := newPipeline(newMemStore())

	_, _, err := p.Upload(context.Background(), nil, "a.png")
	assert.ErrorIs(t, err, uploader.ErrNoData)
}

func TestPipeline_Upload_PutFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("bucket unavailable")
	p := newPipeline(store)

	_, _, err := p.Upload(context.Background(), pngBytes(), "a.png")
	assert.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestPipeline_Remove(t *testing.T) {
	store := newMemStore()
	p := newPipeline(store)

	_, key, err := p.Upload(context.Background(), pngBytes(), "a.png")
	assert.NoError(t, err)

	assert.NoError(t, p.Remove(context.Background(), key))
	assert.Empty(t, store.objects)

	// 空キーは何もしない
	assert.NoError(t, p.Remove(context.Background(), ""))
}
