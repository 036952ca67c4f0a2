// Package httpapi serves rectangle extraction over HTTP multipart uploads.
//
// Routes:
//
//	POST /extract-rect-coords       one image in part "file"
//	POST /extract-rect-coords-list  one or more images in parts "files"
//	GET  /healthz                   liveness
//
// The single-image route answers with the rectangle array indented by four
// spaces. Failures answer {"error": message}: 400 for a missing part or a
// rejected format, 413 for an oversized body, 422 for an undecodable image
// and 500 for anything else. The list route always answers 200 with per-file
// results and errors.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ironsheep/rect-coords/internal/extract"
)

// Error messages returned to clients.
const (
	msgNoFilePart      = "No file part"
	msgNoSelectedFile  = "No selected file"
	msgInvalidFileType = "Invalid file type"
	msgNoFiles         = "No files provided"
	msgInvalidFile     = "Invalid file"
	msgTooLarge        = "Request body too large"
)

// Handler serves the extraction routes.
type Handler struct {
	extractor *extract.Extractor
	maxUpload int64
	logf      func(format string, args ...interface{})
	accessLog bool
	mux       *http.ServeMux
}

// NewHandler creates the HTTP handler. maxUpload caps the request body size
// in bytes. logf, when non-nil, receives extraction failures, and with
// accessLog set also one access line per request.
func NewHandler(ex *extract.Extractor, maxUpload int64, logf func(format string, args ...interface{}), accessLog bool) *Handler {
	h := &Handler{
		extractor: ex,
		maxUpload: maxUpload,
		logf:      logf,
		accessLog: accessLog,
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /extract-rect-coords", h.handleExtract)
	h.mux.HandleFunc("POST /extract-rect-coords-list", h.handleExtractList)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	if h.accessLog {
		h.log("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	}
}

func (h *Handler) log(format string, args ...interface{}) {
	if h.logf != nil {
		h.logf(format, args...)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	if status, msg := h.parseForm(w, r); status != 0 {
		writeError(w, status, msg)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		// A part sent without a file name is kept as a plain form value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			writeError(w, http.StatusBadRequest, msgNoSelectedFile)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFilePart)
		return
	}

	fh := files[0]
	data, err := readPart(fh)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rects, err := h.extractor.ExtractBytes(fh.Filename, data)
	if err != nil {
		h.log("Error processing file %s: %v", fh.Filename, err)
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}

	body, err := json.MarshalIndent(rects, "", "    ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *Handler) handleExtractList(w http.ResponseWriter, r *http.Request) {
	if status, msg := h.parseForm(w, r); status != 0 {
		writeError(w, status, msg)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		if _, ok := r.MultipartForm.Value["files"]; ok {
			writeError(w, http.StatusBadRequest, msgNoFiles)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFilePart)
		return
	}

	items := make([]extract.Item, 0, len(files))
	for _, fh := range files {
		data, err := readPart(fh)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		items = append(items, extract.Item{Name: fh.Filename, Data: data})
	}

	result := h.extractor.ExtractBatch(r.Context(), items)
	for i := range result.Errors {
		if extract.Kind(result.Errors[i].Err) == extract.KindUnsupportedFormat {
			result.Errors[i].Error = msgInvalidFile
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// parseForm reads the multipart body within the upload limit. It returns a
// zero status on success.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (int, string) {
	if r.ContentLength > h.maxUpload {
		return http.StatusRequestEntityTooLarge, msgTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, msgTooLarge
		}
		return http.StatusBadRequest, msgNoFilePart
	}
	return 0, ""
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// statusFor maps an extraction error to a response status and message.
func statusFor(err error) (int, string) {
	switch extract.Kind(err) {
	case extract.KindUnsupportedFormat:
		return http.StatusBadRequest, msgInvalidFileType
	case extract.KindImageDecode:
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
