package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"kaizen/internal/editor"
	"kaizen/internal/middleware"
	"kaizen/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 選択画像の上限。フォーム全体ではなく1ファイルに対して見る。
const maxImageBytes = 10 << 20

// /admin/products をまとめる。editorの状態機械を経由して書き込む。
type AdminProductHandler struct {
	editors *editor.Manager
	adminUC *usecase.AdminProductUsecase
	catalog *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(
	editors *editor.Manager,
	adminUC *usecase.AdminProductUsecase,
	catalog *usecase.CatalogUsecase,
) *AdminProductHandler {
	return &AdminProductHandler{
		editors: editors,
		adminUC: adminUC,
		catalog: catalog,
	}
}

// adminを登録。SessionResolverはサーバー全体に掛かっている前提。
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/admin")

	admin.Use(middleware.AdminGate())

	admin.GET("/products", h.listProducts)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/editor/close", h.closeEditor)
}

// 管理パネルの一覧。公開一覧と同じ新着順の取り直し。
func (h *AdminProductHandler) listProducts(c echo.Context) error {
	out, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	ed := h.editors.For(s.UserID)

	// 前回の残骸があっても作り直す
	ed.Cancel()
	if err := ed.OpenCreate(); err != nil {
		return writeEditorError(c, err)
	}

	if err := h.fillDraft(c, ed); err != nil {
		return writeEditorError(c, err)
	}

	p, err := ed.Submit(c.Request().Context())
	if err != nil {
		return writeEditorError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id := c.Param("id")

	// 編集対象を取ってdraftへ写す（既存画像URLが初期プレビュー）
	existing, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	s := middleware.SessionFromContext(c)
	ed := h.editors.For(s.UserID)

	ed.Cancel()
	if err := ed.OpenEdit(existing); err != nil {
		return writeEditorError(c, err)
	}

	if err := h.fillDraft(c, ed); err != nil {
		return writeEditorError(c, err)
	}

	p, err := ed.Submit(c.Request().Context())
	if err != nil {
		return writeEditorError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	// 削除は明示的な確認が無いとリポジトリまで行かせない
	if c.QueryParam("confirm") != "true" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "confirmation required"})
	}

	if err := h.adminUC.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// パネルを閉じる。draftは破棄され、ネットワークには出ない。
func (h *AdminProductHandler) closeEditor(c echo.Context) error {
	s := middleware.SessionFromContext(c)
	h.editors.Close(s.UserID)
	return c.JSON(http.StatusOK, SuccessResponse{Message: "closed"})
}

// multipartフォームの値と選択画像をdraftへ流し込む。
func (h *AdminProductHandler) fillDraft(c echo.Context, ed *editor.Editor) error {
	if err := ed.EditFields(
		c.FormValue("name"),
		c.FormValue("price"),
		c.FormValue("description"),
	); err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil // 画像なしはそのまま（編集なら既存URL維持）
		}
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	data, err := readImageFile(fh)
	if err != nil {
		return err
	}

	if _, err := ed.SelectImage(data, fh.Filename); err != nil {
		return err
	}
	return nil
}

func readImageFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxImageBytes {
		return nil, usecase.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid image")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid image")
	}
	if len(data) > maxImageBytes {
		return nil, usecase.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
	}
	return data, nil
}

// editorのローカル検証エラーは400、アップロード失敗は502に寄せる。
func writeEditorError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, editor.ErrNameRequired),
		errors.Is(err, editor.ErrDescriptionRequired),
		errors.Is(err, editor.ErrInvalidPrice),
		errors.Is(err, editor.ErrNegativePrice),
		errors.Is(err, editor.ErrNotOpen),
		errors.Is(err, editor.ErrAlreadyOpen):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, editor.ErrUploadFailed):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "image upload failed"})
	default:
		return writeError(c, err)
	}
}
