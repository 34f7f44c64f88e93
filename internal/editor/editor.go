package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"kaizen/internal/domain/model"
	"kaizen/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type State int

const (
	StateIdle State = iota
	StateCreating
	StateEditing
)

var (
	ErrNotOpen     = errors.New("editor is not open")
	ErrAlreadyOpen = errors.New("editor already has a draft")

	// ネットワークに出る前に弾くローカル検証
	ErrNameRequired        = errors.New("name required")
	ErrDescriptionRequired = errors.New("description required")
	ErrInvalidPrice        = errors.New("price must be a number")
	ErrNegativePrice       = errors.New("price must be >= 0")

	// アップロード失敗。draftはそのまま残る。
	ErrUploadFailed = errors.New("image upload failed")
)

// 画像をバケットへ置いて公開URLを返す約束
type UploadPipeline interface {
	Upload(ctx context.Context, data []byte, originalFilename string) (url string, key string, err error)
	Remove(ctx context.Context, key string) error
}

// 検証済みフィールドをカタログへ書き込む約束
type ProductWriter interface {
	Create(ctx context.Context, f usecase.ProductFields) (model.Product, error)
	Update(ctx context.Context, id string, f usecase.ProductFields) (model.Product, error)
}

// Editorは作成/編集フォームの状態機械。遷移は必ず新しいDraft
// スナップショットを作り、途中状態を外に見せない。
type Editor struct {
	mu     sync.Mutex
	state  State
	draft  Draft
	seq    uint64 // 画像選択の連番。古い完了を捨てるために使う
	upload UploadPipeline
	writer ProductWriter
	logger zerolog.Logger
}

// DI
func New(upload UploadPipeline, writer ProductWriter, logger zerolog.Logger) *Editor {
	return &Editor{
		upload: upload,
		writer: writer,
		logger: logger,
	}
}

// Idle -> Creating。空のdraftを用意する。
func (e *Editor) OpenCreate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return ErrAlreadyOpen
	}
	e.state = StateCreating
	e.draft = blankDraft()
	return nil
}

// Idle -> Editing。既存商品からdraftを写す。
func (e *Editor) OpenEdit(p model.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return ErrAlreadyOpen
	}
	e.state = StateEditing
	e.draft = draftFromProduct(p)
	return nil
}

// フォーム入力をdraftへ反映する。
func (e *Editor) EditFields(name, priceText, description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateIdle {
		return ErrNotOpen
	}
	e.draft = e.draft.withFields(name, priceText, description)
	return nil
}

// 選択画像を差し替える。プレビューは非同期に作り、
// 古い選択の完了は捨てる（最後の選択が必ず勝つ）。
func (e *Editor) SelectImage(data []byte, filename string) (uint64, error) {
	e.mu.Lock()

	if e.state == StateIdle {
		e.mu.Unlock()
		return 0, ErrNotOpen
	}

	e.seq++
	seq := e.seq
	e.draft = e.draft.withPendingImage(data, filename)
	e.mu.Unlock()

	go e.completePreview(seq, buildPreview(data))
	return seq, nil
}

// completePreviewはseqが現在の選択と一致するときだけ反映する。
func (e *Editor) completePreview(seq uint64, preview string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.seq {
		return // 後から来た古い完了
	}
	if e.state == StateIdle {
		return
	}
	e.draft = e.draft.withPreview(preview, seq)
}

// Submitは 検証 -> （必要なら）アップロード -> 書き込み。
// 失敗時は状態もdraftもそのまま残し、再送に備える。
func (e *Editor) Submit(ctx context.Context) (model.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateIdle {
		return model.Product{}, ErrNotOpen
	}

	fields, err := e.validateLocked()
	if err != nil {
		return model.Product{}, err
	}

	// 新しい画像が選ばれていれば先にアップロード
	uploadedKey := ""
	if len(e.draft.Pending) > 0 {
		url, key, err := e.upload.Upload(ctx, e.draft.Pending, e.draft.PendingName)
		if err != nil {
			return model.Product{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		fields.ImageURL = url
		uploadedKey = key
	}

	var p model.Product
	if e.state == StateCreating {
		p, err = e.writer.Create(ctx, fields)
	} else {
		p, err = e.writer.Update(ctx, e.draft.ProductID, fields)
	}
	if err != nil {
		// カタログ書き込みに失敗したら置いたばかりのblobを回収する。
		// Pendingは残っているので再送時にもう一度アップロードされる。
		if uploadedKey != "" {
			if rmErr := e.upload.Remove(ctx, uploadedKey); rmErr != nil {
				e.logger.Warn().Err(rmErr).Str("key", uploadedKey).Msg("orphan blob cleanup failed")
			}
		}
		return model.Product{}, err
	}

	e.state = StateIdle
	e.draft = blankDraft()
	return p, nil
}

// 非Idle -> Idle。ネットワークには出ない。
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = StateIdle
	e.draft = blankDraft()
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshotは現在のdraftのコピーを返す（Pendingは共有される）。
func (e *Editor) Snapshot() (State, Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.draft
}

// validateLockedはネットワークに出る前のローカル検証。
// ImageURLはアップロードしない場合の既存URL（新規は空文字）。
func (e *Editor) validateLocked() (usecase.ProductFields, error) {
	name := strings.TrimSpace(e.draft.Name)
	description := strings.TrimSpace(e.draft.Description)

	if name == "" {
		return usecase.ProductFields{}, ErrNameRequired
	}
	if description == "" {
		return usecase.ProductFields{}, ErrDescriptionRequired
	}

	price, err := decimal.NewFromString(strings.TrimSpace(e.draft.PriceText))
	if err != nil {
		return usecase.ProductFields{}, ErrInvalidPrice
	}
	if price.IsNegative() {
		return usecase.ProductFields{}, ErrNegativePrice
	}

	return usecase.ProductFields{
		Name:        name,
		Price:       price,
		Description: description,
		ImageURL:    e.draft.ImageURL,
	}, nil
}
