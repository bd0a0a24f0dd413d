// Package blob implements the file lifecycle: upload validation, the facade
// over object storage, and the HTTP endpoints exposing it.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/filedrop/service/internal/storage"
)

// MetaUserEmail is the metadata key carrying the uploader's email address.
// It is written together with the blob content and lets the stored object
// identify its uploader without any other lookup.
const MetaUserEmail = "UserEmail"

// signedURLValidity is the lifetime of the signed URL returned on upload.
const signedURLValidity = time.Hour

// Record describes one stored file, as returned by List.
type Record struct {
	Name        string `json:"name"`
	URI         string `json:"uri"`
	ContentType string `json:"contentType"`
}

// Content is a downloaded file. Body is a one-shot stream: the caller owns it
// and must close it.
type Content struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

// OutcomeBlob identifies the blob an Outcome refers to. URI is a read-only
// signed URL on upload, empty on failure and on delete.
type OutcomeBlob struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Outcome is the normalized result of an upload or delete attempt.
type Outcome struct {
	Error  bool        `json:"error"`
	Status string      `json:"status"`
	Blob   OutcomeBlob `json:"blob"`
}

// Events records follow-up work for successfully uploaded files. The
// notification outbox implements it; the facade only emits.
type Events interface {
	Enqueue(ctx context.Context, blobName, userEmail string) error
}

// Service is the facade over the object storage backend. It is stateless per
// request: the store owns all persistent state.
type Service struct {
	store  storage.Store
	events Events
}

// NewService creates a new blob Service.
func NewService(store storage.Store, events Events) *Service {
	return &Service{store: store, events: events}
}

// Upload writes the content stream to storage under fileName, attaching the
// uploader's email as blob metadata, and emits the notification event. The
// returned outcome carries a signed read-only URL valid for one hour.
func (s *Service) Upload(ctx context.Context, fileName string, content io.Reader, size int64, contentType, userEmail string) Outcome {
	meta := storage.Metadata{MetaUserEmail: userEmail}

	err := s.store.Put(ctx, fileName, content, size, contentType, meta)
	if errors.Is(err, storage.ErrAlreadyExists) {
		log.Error().Str("file", fileName).Msg("upload rejected: file already exists")
		return Outcome{Error: true, Status: fmt.Sprintf("File %s already exist in container.", fileName)}
	}
	if err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("upload failed")
		return Outcome{Error: true, Status: "Unexpected error while uploading the file."}
	}

	uri, err := s.store.PresignedURL(ctx, fileName, signedURLValidity)
	if err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("signing download URL failed")
		return Outcome{Error: true, Status: "Unexpected error while uploading the file."}
	}

	if err := s.events.Enqueue(ctx, fileName, userEmail); err != nil {
		// The blob itself still carries the UserEmail metadata, so a failed
		// insert loses only the timely notification, not the upload.
		log.Error().Err(err).Str("file", fileName).Msg("enqueue upload notification failed")
	}

	log.Info().Str("file", fileName).Msg("file uploaded")
	return Outcome{
		Error:  false,
		Status: fmt.Sprintf("File %s uploaded successfully.", fileName),
		Blob:   OutcomeBlob{Name: fileName, URI: uri},
	}
}

// Download returns the content stream for blobName, or storage.ErrNotFound
// when no such file exists.
func (s *Service) Download(ctx context.Context, blobName string) (*Content, error) {
	body, info, err := s.store.Get(ctx, blobName)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warn().Str("file", blobName).Msg("download: file not found")
		return nil, err
	}
	if err != nil {
		log.Error().Err(err).Str("file", blobName).Msg("download failed")
		return nil, err
	}

	return &Content{Name: blobName, ContentType: info.ContentType, Body: body}, nil
}

// List returns one Record per file in the container. Order is unspecified.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("listing files failed")
		return nil, err
	}

	base := s.store.ContainerURL()
	records := make([]Record, 0, len(infos))
	for _, info := range infos {
		records = append(records, Record{
			Name:        info.Key,
			URI:         base + "/" + info.Key,
			ContentType: info.ContentType,
		})
	}
	return records, nil
}

// Delete removes blobName from storage. A missing file is reported as a
// failure outcome, not an error.
func (s *Service) Delete(ctx context.Context, blobName string) Outcome {
	err := s.store.Delete(ctx, blobName)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warn().Str("file", blobName).Msg("delete: file not found")
		return Outcome{Error: true, Status: fmt.Sprintf("File %s not found.", blobName)}
	}
	if err != nil {
		log.Error().Err(err).Str("file", blobName).Msg("delete failed")
		return Outcome{Error: true, Status: "Unexpected error while deleting the file."}
	}

	log.Info().Str("file", blobName).Msg("file deleted")
	return Outcome{Error: false, Status: fmt.Sprintf("File: %s has been successfully deleted!", blobName)}
}
