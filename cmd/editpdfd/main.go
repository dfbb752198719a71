// Command editpdfd runs the HTTP surface in front of THE CORE's PDF
// text-editing engine (spec.md §6), wiring internal/docstore,
// internal/editor, and internal/httpapi together the way backend/main.py's
// FastAPI app wires document storage, the edit/add routes, and download.
package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Ayush-Nema/EditPDF/internal/common"
	"github.com/Ayush-Nema/EditPDF/internal/docstore"
	"github.com/Ayush-Nema/EditPDF/internal/editor"
	"github.com/Ayush-Nema/EditPDF/internal/httpapi"
)

func main() {
	common.SetLogger(common.NewConsoleLogger(common.LogLevelInfo))

	uploadDir := os.Getenv("EDITPDF_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	addr := os.Getenv("EDITPDF_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	docs, err := docstore.New(uploadDir)
	if err != nil {
		log.Fatalf("editpdfd: could not initialize document store at %s: %v", uploadDir, err)
	}
	ed := editor.New(docs)

	r := gin.Default()
	httpapi.New(ed).Register(r)

	common.Log.Info("editpdfd: listening on %s (uploads: %s)", addr, uploadDir)
	if err := r.Run(addr); err != nil {
		log.Fatalf("editpdfd: server error: %v", err)
	}
}
