// Package httpapi is the thin HTTP surface spec.md §6 describes as
// external to THE CORE: it decodes requests, calls into internal/editor,
// internal/imageops, and internal/base14, and maps their errors onto the
// status codes §7 specifies. No PDF logic lives here.
package httpapi

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ayush-Nema/EditPDF/internal/base14"
	"github.com/Ayush-Nema/EditPDF/internal/common"
	"github.com/Ayush-Nema/EditPDF/internal/editor"
	"github.com/Ayush-Nema/EditPDF/internal/imageops"
	"github.com/Ayush-Nema/EditPDF/internal/renderer"
)

// API holds the orchestrator dependencies every handler needs.
type API struct {
	Editor *editor.Editor
}

// New builds an API wrapping ed.
func New(ed *editor.Editor) *API {
	return &API{Editor: ed}
}

// Register wires every route under /api onto r, matching the prefix and
// verb conventions of spec.md §6.
func (a *API) Register(r *gin.Engine) {
	r.POST("/api/upload", a.upload)
	docs := r.Group("/api/documents/:doc_id")
	docs.GET("/download", a.download)
	docs.GET("/pages/count", a.pageCount)
	docs.GET("/pages/:page/image", a.pageImage)
	docs.GET("/pages/:page/text", a.pageText)
	docs.POST("/pages/:page/edit", a.editSpan)
	docs.POST("/pages/:page/add", a.addText)
	docs.GET("/pages/:page/images", a.listImages)
	docs.POST("/pages/:page/images", a.addImage)
	docs.POST("/pages/:page/images/:index/delete", a.deleteImage)
	docs.POST("/pages/:page/images/:index/move", a.moveImage)
	docs.POST("/pages/:page/images/:index/resize", a.resizeImage)
	docs.POST("/undo", a.undo)
	docs.POST("/redo", a.redo)
}

func (a *API) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	docID, err := a.Editor.Upload(content)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doc_id": docID})
}

func (a *API) download(c *gin.Context) {
	content, err := a.Editor.Download(c.Param("doc_id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", content)
}

func (a *API) pageCount(c *gin.Context) {
	n, err := a.Editor.PageCount(c.Param("doc_id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": n})
}

func (a *API) pageImage(c *gin.Context) {
	pageNum, ok := intParam(c, "page")
	if !ok {
		return
	}
	png, err := a.Editor.RenderPage(c.Param("doc_id"), pageNum)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// spanDTO is the wire shape of a logical span, matching models.py's
// PageTextResponse item fields.
type spanDTO struct {
	Index int       `json:"index"`
	Text  string    `json:"text"`
	BBox  [4]float64 `json:"bbox"`
	Font  string    `json:"font"`
	Size  float64   `json:"size"`
	Color string    `json:"color"`
}

func (a *API) pageText(c *gin.Context) {
	pageNum, ok := intParam(c, "page")
	if !ok {
		return
	}
	spans, err := a.Editor.Spans(c.Param("doc_id"), pageNum)
	if err != nil {
		writeErr(c, err)
		return
	}
	out := make([]spanDTO, len(spans))
	for i, s := range spans {
		out[i] = spanDTO{
			Index: s.Index,
			Text:  s.Text,
			BBox:  [4]float64{s.BBox.Llx, s.BBox.Lly, s.BBox.Urx, s.BBox.Ury},
			Font:  s.Font,
			Size:  s.FontSize,
			Color: hexColor(s.Color),
		}
	}
	c.JSON(http.StatusOK, gin.H{"spans": out})
}

// editRequest mirrors models.py's EditRequest.
type editRequest struct {
	SpanIndex *int     `json:"span_index" binding:"required"`
	NewText   string   `json:"new_text"`
	FontSize  *float64 `json:"font_size"`
	Color     *string  `json:"color"`
}

func (a *API) editSpan(c *gin.Context) {
	pageNum, ok := intParam(c, "page")
	if !ok {
		return
	}
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	color, err := parseColorPtr(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid color"})
		return
	}
	err = a.Editor.EditSpan(editor.EditRequest{
		DocID:     c.Param("doc_id"),
		Page:      pageNum,
		SpanIndex: *req.SpanIndex,
		NewText:   req.NewText,
		FontSize:  req.FontSize,
		Color:     color,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// addTextRequest mirrors models.py's AddTextRequest.
type addTextRequest struct {
	Text     string  `json:"text" binding:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
	Color    string  `json:"color"`
	Font     string  `json:"font"`
}

func (a *API) addText(c *gin.Context) {
	pageNum, ok := intParam(c, "page")
	if !ok {
		return
	}
	var req addTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	size := req.FontSize
	if size <= 0 {
		size = editor.Defaults.FontSize
	}
	color := editor.Defaults.FontColor
	if req.Color != "" {
		parsed, err := parseColor(req.Color)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid color"})
			return
		}
		color = parsed
	}
	family := base14.Normalize(req.Font)
	if req.Font == "" {
		family = "helv"
	}
	if err := a.Editor.AddText(c.Param("doc_id"), pageNum, req.Text, req.X, req.Y, size, color, family); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) undo(c *gin.Context) {
	ok, err := a.Editor.Undo(c.Param("doc_id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "undone": ok})
}

func (a *API) redo(c *gin.Context) {
	ok, err := a.Editor.Redo(c.Param("doc_id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "redone": ok})
}

func (a *API) listImages(c *gin.Context) {
	pageNum, ok := intParam(c, "page")
	if !ok {
		return
	}
	doc, err := a.openRenderer(c)
	if err != nil {
		return
	}
	placements, err := imageops.List(doc, pageNum)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": placements})
}

func (a *API) addImage(c *gin.Context) {
	pageNum, ok := intParam(c, "page")
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.ErrInvalidImage.Error()})
		return
	}
	x, _ := strconv.ParseFloat(c.DefaultPostForm("x", "0"), 64)
	y, _ := strconv.ParseFloat(c.DefaultPostForm("y", "0"), 64)
	w, _ := strconv.ParseFloat(c.DefaultPostForm("width", "0"), 64)
	h, _ := strconv.ParseFloat(c.DefaultPostForm("height", "0"), 64)

	if err := a.Editor.AddImage(c.Param("doc_id"), pageNum, img, x, y, w, h); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) deleteImage(c *gin.Context) {
	pageNum, idx, ok := pageAndIndex(c)
	if !ok {
		return
	}
	if err := a.Editor.DeleteImage(c.Param("doc_id"), pageNum, idx); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) moveImage(c *gin.Context) {
	pageNum, idx, ok := pageAndIndex(c)
	if !ok {
		return
	}
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := a.Editor.MoveImage(c.Param("doc_id"), pageNum, idx, req.X, req.Y); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) resizeImage(c *gin.Context) {
	pageNum, idx, ok := pageAndIndex(c)
	if !ok {
		return
	}
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		W float64 `json:"width"`
		H float64 `json:"height"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := a.Editor.ResizeImage(c.Param("doc_id"), pageNum, idx, req.X, req.Y, req.W, req.H); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func pageAndIndex(c *gin.Context) (int, int, bool) {
	pageNum, ok := intParam(c, "page")
	if !ok {
		return 0, 0, false
	}
	idx, ok := intParam(c, "index")
	if !ok {
		return 0, 0, false
	}
	return pageNum, idx, true
}

// openRenderer loads and parses doc_id's current bytes for the read-only
// image listing, which has no mutation to snapshot or lock.
func (a *API) openRenderer(c *gin.Context) (*renderer.Document, error) {
	content, err := a.Editor.Docs.Read(c.Param("doc_id"))
	if err != nil {
		writeErr(c, err)
		return nil, err
	}
	doc, err := renderer.Open(content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.ErrInvalidPdf.Error()})
		return nil, err
	}
	return doc, nil
}

func writeErr(c *gin.Context, err error) {
	common.Log.Debug("httpapi: request failed: %v", err)
	switch {
	case errors.Is(err, editor.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
	case errors.Is(err, editor.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, editor.ErrOversize):
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload exceeds maximum size"})
	case errors.Is(err, editor.ErrInvalidPdf):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrEditFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "edit failed"})
	case errors.Is(err, imageops.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
