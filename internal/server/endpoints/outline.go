package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/batch"
	"github.com/jackzampolin/outline/internal/outline"
	"github.com/jackzampolin/outline/internal/svcctx"
)

// DefaultMaxUploadBytes bounds an uploaded PDF when no limit is configured.
const DefaultMaxUploadBytes = 100 << 20

// multipartMemory is how much of an upload is held in memory before spilling
// to a temporary file.
const multipartMemory = 32 << 20

// OutlineEndpoint handles POST /api/outline with a multipart PDF upload.
type OutlineEndpoint struct {
	// MaxUploadBytes limits the request body (default DefaultMaxUploadBytes).
	MaxUploadBytes int64
}

var _ api.Endpoint = (*OutlineEndpoint)(nil)

func (e *OutlineEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/outline", e.handler
}

func (e *OutlineEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Outline a PDF
//	@Description	Upload one PDF and receive its title and heading outline
//	@Tags			outline
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"PDF file"
//	@Success		200		{object}	outline.Document
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/outline [post]
func (e *OutlineEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	limit := e.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	src, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer src.Close()

	if !batch.IsPDF(fh.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", fh.Filename))
		return
	}

	runner := svcctx.RunnerFrom(r.Context())
	logger := svcctx.LoggerFrom(r.Context())

	dir := os.TempDir()
	if h := svcctx.HomeFrom(r.Context()); h != nil {
		dir = h.UploadsPath()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create upload directory: %v", err))
		return
	}

	// Saved under a generated name so concurrent uploads never collide.
	path := filepath.Join(dir, uuid.New().String()+".pdf")
	if err := saveUpload(path, src); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.Remove(path)

	doc, report, err := runner.Build(r.Context(), path)
	if err != nil {
		status := batch.Classify(err)
		logger.Warn("outline request failed", "file", fh.Filename, "status", status, "error", err)
		if status == batch.StatusMalformed {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: string(status)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: string(status)})
		return
	}

	logger.Info("outline served",
		"file", fh.Filename,
		"title", doc.Title,
		"entries", len(doc.Outline),
		"levels", report.AllCounts.String())
	writeJSON(w, http.StatusOK, doc)
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("failed to save file: %w", err)
	}
	return dst.Close()
}

func (e *OutlineEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "outline <file.pdf>",
		Short: "Outline a PDF on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var doc outline.Document
			if err := client.Upload(cmd.Context(), "/api/outline", "file", args[0], &doc); err != nil {
				return err
			}
			if outputFile != "" {
				return api.OutputToFile(doc, outputFile)
			}
			return api.Output(doc)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write the outline to this file instead of stdout")
	return cmd
}
