package imports

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielk69/AWIL/app/api"
	"github.com/danielk69/AWIL/importer"
)

// DefaultMaxUploadBytes bounds the multipart body when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

type SpreadsheetImporter interface {
	ImportFile(ctx context.Context, filename string, r io.Reader) (*importer.Result, error)
}

type ImportHandler struct {
	importer SpreadsheetImporter
	maxBytes int64
	logger   *zap.Logger
}

func NewImportHandler(i SpreadsheetImporter, maxBytes int64, logger *zap.Logger) *ImportHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{importer: i, maxBytes: maxBytes, logger: logger}
}

type Response struct {
	Message string           `json:"message"`
	Result  *importer.Result `json:"result"`
}

func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		api.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		api.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	result, err := h.importer.ImportFile(r.Context(), header.Filename, file)
	if errors.Is(err, importer.ErrMalformedInput) {
		api.ErrorResponse(w, http.StatusBadRequest, "malformed_input", err.Error())
		return
	}
	if err != nil {
		h.logger.Error("Import failed",
			zap.String("filename", header.Filename),
			zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Error importing data")
		return
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Message: "Data imported successfully",
		Result:  result,
	})
}
