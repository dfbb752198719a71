// Package editor is the edit orchestrator (spec.md §2): given a
// (doc_id, page, span_index, new_text, ...) request it runs logical-span
// extraction to locate the target, attempts content-stream surgery, and
// falls through to the redact-and-reinsert fallback when surgery can't
// apply — persisting the result incrementally and snapshotting through
// internal/history before any mutation, exactly as spec.md §5/§9 require.
package editor

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/Ayush-Nema/EditPDF/internal/base14"
	"github.com/Ayush-Nema/EditPDF/internal/docstore"
	"github.com/Ayush-Nema/EditPDF/internal/fallback"
	"github.com/Ayush-Nema/EditPDF/internal/fontres"
	"github.com/Ayush-Nema/EditPDF/internal/history"
	"github.com/Ayush-Nema/EditPDF/internal/imageops"
	"github.com/Ayush-Nema/EditPDF/internal/pdfid"
	"github.com/Ayush-Nema/EditPDF/internal/renderer"
	"github.com/Ayush-Nema/EditPDF/internal/replace"
	"github.com/Ayush-Nema/EditPDF/internal/span"
	"github.com/Ayush-Nema/EditPDF/internal/stream"
)

// Error taxonomy (spec.md §7). HTTP-facing wrapping happens in
// internal/httpapi; these sentinels are what every orchestrator method
// returns so callers can classify failures without string matching.
var (
	// ErrInvalidID mirrors pdfid.ErrInvalidID for callers that only import
	// this package.
	ErrInvalidID = pdfid.ErrInvalidID
	// ErrNotFound covers a missing document, page, span, or image.
	ErrNotFound = errors.New("not found")
	// ErrOversize mirrors docstore.ErrOversize.
	ErrOversize = docstore.ErrOversize
	// ErrInvalidPdf wraps an underlying parse failure on upload or open.
	ErrInvalidPdf = errors.New("invalid pdf")
	// ErrInvalidImage wraps an underlying image decode failure.
	ErrInvalidImage = errors.New("invalid image")
	// ErrEditFailed is returned when both surgery and the fallback raise;
	// it is the only 500-class error this package produces (spec.md §7).
	ErrEditFailed = errors.New("edit failed")
)

// Defaults mirrors backend/config.py's module-level constants (spec.md §6,
// SPEC_FULL §2 "Configuration").
var Defaults = struct {
	FontSize   float64
	FontColor  [3]float64
	RenderScale float64
}{
	FontSize:    12.0,
	FontColor:   [3]float64{0, 0, 0},
	RenderScale: 2.0,
}

// Editor wires the document store, history, and THE CORE's packages into
// the single-worker-per-request edit path spec.md §5 describes.
type Editor struct {
	Docs    *docstore.Store
	History *history.Store
}

// New builds an Editor over docs, minting its own HistoryStore.
func New(docs *docstore.Store) *Editor {
	return &Editor{Docs: docs, History: history.New(docs)}
}

// Spans returns every logical span on pageNum of docID, in reading order.
func (e *Editor) Spans(docID string, pageNum int) ([]span.LogicalSpan, error) {
	doc, err := e.open(docID)
	if err != nil {
		return nil, err
	}
	spans, err := span.Extract(doc, pageNum)
	if err != nil {
		return nil, classifyPageErr(err)
	}
	return spans, nil
}

// EditRequest is one text-replacement request (spec.md §2 data flow).
type EditRequest struct {
	DocID     string
	Page      int
	SpanIndex int
	NewText   string
	// FontSize/Color override the span's own style when non-zero/non-nil;
	// supplying either forces the fallback path, since content-stream
	// surgery can only preserve the *original* style (spec.md §2
	// "if style unchanged").
	FontSize *float64
	Color    *[3]float64
}

// EditSpan runs the full pipeline of spec.md §2 for one request: locate
// the span, try surgery, fall back to redact-and-reinsert, persist.
func (e *Editor) EditSpan(req EditRequest) error {
	if err := pdfid.Validate(req.DocID); err != nil {
		return ErrInvalidID
	}

	return e.History.WithLock(req.DocID, func() error {
		doc, err := e.open(req.DocID)
		if err != nil {
			return err
		}

		target, ok, err := span.Find(doc, req.Page, req.SpanIndex)
		if err != nil {
			return classifyPageErr(err)
		}
		if !ok {
			return fmt.Errorf("%w: span %d", ErrNotFound, req.SpanIndex)
		}

		size := target.FontSize
		color := target.Color
		styleOverridden := false
		if req.FontSize != nil && *req.FontSize != target.FontSize {
			size = *req.FontSize
			styleOverridden = true
		}
		if req.Color != nil && *req.Color != target.Color {
			color = *req.Color
			styleOverridden = true
		}

		if err := e.History.SnapshotBefore(req.DocID); err != nil {
			return fmt.Errorf("%w: snapshot: %v", ErrEditFailed, err)
		}

		if !styleOverridden && req.NewText != "" && !strings.Contains(target.Text, "\n") {
			if surgery(doc, req.Page, target.Text, req.NewText) {
				return persist(e.Docs, req.DocID, doc)
			}
		}

		if err := fallback.Apply(doc, req.Page, target, req.NewText, size, color); err != nil {
			return fmt.Errorf("%w: %v", ErrEditFailed, err)
		}
		return persist(e.Docs, req.DocID, doc)
	})
}

// surgery runs the content-stream replacement driver (spec.md §4.6) over
// pageNum's tokenized content stream and, on success, writes the rewritten
// stream back. It returns false on any failure to tokenize, resolve fonts,
// or match, leaving doc untouched so the caller can fall through.
func surgery(doc *renderer.Document, pageNum int, targetText, newText string) bool {
	content, err := doc.ContentStreams(pageNum)
	if err != nil {
		return false
	}
	resolver, err := fontres.New(doc, pageNum)
	if err != nil {
		return false
	}
	tokens := stream.Tokenize([]byte(content))
	result, err := replace.Apply(tokens, resolver, targetText, newText)
	if err != nil || !result.Replaced {
		return false
	}
	rewritten := joinTokens(result.Tokens)
	if err := doc.SetContentStream(pageNum, rewritten); err != nil {
		return false
	}
	return true
}

func joinTokens(tokens [][]byte) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(tok)
	}
	return sb.String()
}

// AddText inserts free-standing text at (x, y) on pageNum, the "add text"
// operation spec.md's distillation dropped but original_source/ carries
// (SPEC_FULL §5). It draws with a Base14 font through the renderer's
// InsertText, with (x, y) as the first line's baseline and no wrapping or
// box fitting, since there is no existing span or embedded font to prefer.
func (e *Editor) AddText(docID string, pageNum int, text string, x, y, size float64, color [3]float64, fontFamily base14.Family) error {
	if err := pdfid.Validate(docID); err != nil {
		return ErrInvalidID
	}
	return e.History.WithLock(docID, func() error {
		doc, err := e.open(docID)
		if err != nil {
			return err
		}
		if err := e.History.SnapshotBefore(docID); err != nil {
			return fmt.Errorf("%w: snapshot: %v", ErrEditFailed, err)
		}
		font, err := base14.NewFont(fontFamily)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEditFailed, err)
		}
		tag, err := doc.RegisterFont(pageNum, font)
		if err != nil {
			return classifyPageErr(err)
		}
		if err := doc.InsertText(pageNum, tag, font, x, y, text, size, color, 1.3); err != nil {
			return fmt.Errorf("%w: %v", ErrEditFailed, err)
		}
		return persist(e.Docs, docID, doc)
	})
}

// AddImage places img at (x, y) on pageNum of docID, snapshotting first and
// persisting incrementally — the same per-document lock and snapshot-before
// discipline as EditSpan/AddText (spec.md §5 "each mutation must snapshot
// before touching bytes").
func (e *Editor) AddImage(docID string, pageNum int, img image.Image, x, y, w, h float64) error {
	if err := pdfid.Validate(docID); err != nil {
		return ErrInvalidID
	}
	return e.History.WithLock(docID, func() error {
		doc, err := e.open(docID)
		if err != nil {
			return err
		}
		if err := e.History.SnapshotBefore(docID); err != nil {
			return fmt.Errorf("%w: snapshot: %v", ErrEditFailed, err)
		}
		if err := imageops.Add(doc, pageNum, img, x, y, w, h); err != nil {
			return classifyImageErr(err)
		}
		return persist(e.Docs, docID, doc)
	})
}

// DeleteImage removes the imageIndex'th image placement on pageNum of docID.
func (e *Editor) DeleteImage(docID string, pageNum, imageIndex int) error {
	if err := pdfid.Validate(docID); err != nil {
		return ErrInvalidID
	}
	return e.History.WithLock(docID, func() error {
		doc, err := e.open(docID)
		if err != nil {
			return err
		}
		if err := e.History.SnapshotBefore(docID); err != nil {
			return fmt.Errorf("%w: snapshot: %v", ErrEditFailed, err)
		}
		out, err := imageops.Delete(doc, pageNum, imageIndex)
		if err != nil {
			return classifyImageErr(err)
		}
		return e.Docs.Write(docID, out)
	})
}

// MoveImage repositions the imageIndex'th image placement on pageNum of
// docID, clamped to the page bounds.
func (e *Editor) MoveImage(docID string, pageNum, imageIndex int, x, y float64) error {
	if err := pdfid.Validate(docID); err != nil {
		return ErrInvalidID
	}
	return e.History.WithLock(docID, func() error {
		doc, err := e.open(docID)
		if err != nil {
			return err
		}
		if err := e.History.SnapshotBefore(docID); err != nil {
			return fmt.Errorf("%w: snapshot: %v", ErrEditFailed, err)
		}
		out, err := imageops.Move(doc, pageNum, imageIndex, x, y)
		if err != nil {
			return classifyImageErr(err)
		}
		return e.Docs.Write(docID, out)
	})
}

// ResizeImage repositions and resizes the imageIndex'th image placement on
// pageNum of docID, clamped to the page bounds and minimum image size.
func (e *Editor) ResizeImage(docID string, pageNum, imageIndex int, x, y, w, h float64) error {
	if err := pdfid.Validate(docID); err != nil {
		return ErrInvalidID
	}
	return e.History.WithLock(docID, func() error {
		doc, err := e.open(docID)
		if err != nil {
			return err
		}
		if err := e.History.SnapshotBefore(docID); err != nil {
			return fmt.Errorf("%w: snapshot: %v", ErrEditFailed, err)
		}
		out, err := imageops.Resize(doc, pageNum, imageIndex, x, y, w, h)
		if err != nil {
			return classifyImageErr(err)
		}
		return e.Docs.Write(docID, out)
	})
}

// Undo restores docID's previous snapshot.
func (e *Editor) Undo(docID string) (bool, error) {
	if err := pdfid.Validate(docID); err != nil {
		return false, ErrInvalidID
	}
	var ok bool
	err := e.History.WithLock(docID, func() error {
		var err error
		ok, err = e.History.Undo(docID)
		return err
	})
	return ok, err
}

// Redo re-applies docID's most recently undone mutation.
func (e *Editor) Redo(docID string) (bool, error) {
	if err := pdfid.Validate(docID); err != nil {
		return false, ErrInvalidID
	}
	var ok bool
	err := e.History.WithLock(docID, func() error {
		var err error
		ok, err = e.History.Redo(docID)
		return err
	})
	return ok, err
}

// Upload validates and stores content, minting a fresh document id.
func (e *Editor) Upload(content []byte) (string, error) {
	if _, err := renderer.Open(content); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPdf, err)
	}
	docID, err := e.Docs.Save(content)
	if err != nil {
		if errors.Is(err, docstore.ErrOversize) {
			return "", ErrOversize
		}
		return "", err
	}
	return docID, nil
}

// Download returns docID's current bytes.
func (e *Editor) Download(docID string) ([]byte, error) {
	content, err := e.Docs.Read(docID)
	if err != nil {
		return nil, classifyDocErr(err)
	}
	return content, nil
}

// PageCount returns docID's page count.
func (e *Editor) PageCount(docID string) (int, error) {
	doc, err := e.open(docID)
	if err != nil {
		return 0, err
	}
	n, err := doc.NumPages()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPdf, err)
	}
	return n, nil
}

// RenderPage rasterises pageNum at Defaults.RenderScale and returns PNG
// bytes (SPEC_FULL §5 "Page rasterisation").
func (e *Editor) RenderPage(docID string, pageNum int) ([]byte, error) {
	doc, err := e.open(docID)
	if err != nil {
		return nil, err
	}
	png, err := doc.RenderPagePNG(pageNum, Defaults.RenderScale)
	if err != nil {
		return nil, classifyPageErr(err)
	}
	return png, nil
}

func (e *Editor) open(docID string) (*renderer.Document, error) {
	content, err := e.Docs.Read(docID)
	if err != nil {
		return nil, classifyDocErr(err)
	}
	doc, err := renderer.Open(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPdf, err)
	}
	return doc, nil
}

func classifyDocErr(err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, pdfid.ErrInvalidID):
		return ErrInvalidID
	default:
		return err
	}
}

func classifyPageErr(err error) error {
	if errors.Is(err, renderer.ErrPageOutOfRange) || errors.Is(err, span.ErrPageOutOfRange) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func classifyImageErr(err error) error {
	if errors.Is(err, imageops.ErrImageNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return classifyPageErr(err)
}

func persist(docs *docstore.Store, docID string, doc *renderer.Document) error {
	out, err := doc.SaveIncremental()
	if err != nil {
		return fmt.Errorf("%w: save: %v", ErrEditFailed, err)
	}
	if err := docs.Write(docID, out); err != nil {
		return fmt.Errorf("%w: write: %v", ErrEditFailed, err)
	}
	return nil
}
