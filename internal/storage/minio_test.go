package storage

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsNoSuchKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "no such key code",
			err:  minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound},
			want: true,
		},
		{
			name: "plain 404",
			err:  minio.ErrorResponse{Code: "NotFound", StatusCode: http.StatusNotFound},
			want: true,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("stat object: %w", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}),
			want: true,
		},
		{
			name: "access denied",
			err:  minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNoSuchKey(tt.err))
		})
	}
}

func TestObjectInfo(t *testing.T) {
	info := objectInfo(minio.ObjectInfo{
		Key:          "report.docx",
		ContentType:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:         1024,
		UserMetadata: minio.StringMap{"UserEmail": "a@example.com"},
	})

	assert.Equal(t, "report.docx", info.Key)
	assert.Equal(t, int64(1024), info.Size)
	assert.Equal(t, "a@example.com", info.Metadata["UserEmail"])
}
