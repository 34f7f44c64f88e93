package editor

import (
	"encoding/base64"
	"net/http"
	"strings"

	"kaizen/internal/domain/model"
)

// Draftは編集中フォームの1スナップショット。フィールドを個別に
// 書き換えず、遷移のたびに新しい値を丸ごと作る。
type Draft struct {
	ProductID   string // 空なら新規作成
	Name        string
	PriceText   string // 入力のまま保持し、送信時にパースする
	Description string
	ImageURL    string // 既存商品の画像URL（編集時の初期プレビュー）
	Pending     []byte // まだアップロードしていない選択画像
	PendingName string
	Preview     string // data URLまたは既存ImageURL
	PreviewSeq  uint64 // このプレビューを作った選択の連番
}

func blankDraft() Draft {
	return Draft{}
}

func draftFromProduct(p model.Product) Draft {
	return Draft{
		ProductID:   p.ID,
		Name:        p.Name,
		PriceText:   p.Price.String(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Preview:     p.ImageURL,
	}
}

func (d Draft) withFields(name, priceText, description string) Draft {
	next := d
	next.Name = name
	next.PriceText = priceText
	next.Description = description
	return next
}

// Previewはここでは触らない。完了側がseqを見て反映する。
func (d Draft) withPendingImage(data []byte, filename string) Draft {
	next := d
	next.Pending = data
	next.PendingName = filename
	return next
}

func (d Draft) withPreview(preview string, seq uint64) Draft {
	next := d
	next.Preview = preview
	next.PreviewSeq = seq
	return next
}

// buildPreviewはブラウザのFileReader相当。バイト列からdata URLを作る。
func buildPreview(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	contentType := http.DetectContentType(data)
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(contentType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
