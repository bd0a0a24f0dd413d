package blob

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/filedrop/service/internal/response"
)

// maxUploadMemory bounds the multipart form parts held in memory; larger
// files spill to temp files.
const maxUploadMemory = 32 << 20

// Handler holds HTTP handlers for the file storage endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new blob Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List godoc
//
//	@Summary		List stored files
//	@Description	Returns every file in the container with its addressable URI.
//	@Tags			files
//	@Produce		json
//	@Success		200	{array}		Record
//	@Failure		500	{string}	string
//	@Router			/BlobStorage/Get [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		response.Text(w, http.StatusInternalServerError, "Unable to list files.")
		return
	}

	response.JSON(w, http.StatusOK, records)
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores a .docx file and queues a confirmation email for userEmail.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"file to upload (.docx only)"
//	@Param			userEmail	query		string	false	"address to notify after the upload"
//	@Success		200	{object}	Outcome
//	@Failure		400	{string}	string
//	@Router			/BlobStorage [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.Text(w, http.StatusBadRequest, "Request must be multipart/form-data with a file field.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Text(w, http.StatusBadRequest, "Request must include a file field.")
		return
	}
	defer file.Close()

	if reasons := ValidateUpload(header.Filename); len(reasons) > 0 {
		response.JSON(w, http.StatusBadRequest, reasons)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	userEmail := r.URL.Query().Get("userEmail")

	outcome := h.svc.Upload(r.Context(), header.Filename, file, header.Size, contentType, userEmail)
	if outcome.Error {
		response.Text(w, http.StatusBadRequest, outcome.Status)
		return
	}

	response.JSON(w, http.StatusOK, outcome)
}

// Download godoc
//
//	@Summary		Download a file
//	@Description	Streams the file content with its stored content type.
//	@Tags			files
//	@Produce		octet-stream
//	@Param			filename	query	string	true	"name of the file to download"
//	@Success		200	{file}		file
//	@Failure		400	{string}	string
//	@Router			/BlobStorage [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")

	content, err := h.svc.Download(r.Context(), filename)
	if err != nil {
		response.Text(w, http.StatusBadRequest, fmt.Sprintf("Unable to download %s", filename))
		return
	}
	defer content.Body.Close()

	w.Header().Set("Content-Type", content.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", content.Name))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content.Body); err != nil {
		// Headers are already sent; all that is left is to log.
		log.Error().Err(err).Str("file", filename).Msg("streaming download failed")
	}
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Description	Removes the file from the container.
//	@Tags			files
//	@Produce		plain
//	@Param			fileName	query	string	true	"name of the file to delete"
//	@Success		200	{string}	string
//	@Failure		400	{string}	string
//	@Router			/BlobStorage [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")

	outcome := h.svc.Delete(r.Context(), fileName)
	if outcome.Error {
		response.Text(w, http.StatusBadRequest, outcome.Status)
		return
	}

	response.Text(w, http.StatusOK, outcome.Status)
}
