package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/vitrine/internal/service"
	"github.com/Skotchmaster/vitrine/internal/storage"
)

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{
			name: "not an image",
			err:  fmt.Errorf("%w: %w", service.ErrUpload, fmt.Errorf("%w: %s", storage.ErrNotImage, "text/plain")),
			code: http.StatusBadGateway,
			want: "image upload failed: uploaded file is not an image",
		},
		{
			name: "disk failure",
			err:  fmt.Errorf("%w: %w", service.ErrUpload, errors.New("write /srv/uploads/x.png: no space left on device")),
			code: http.StatusBadGateway,
			want: "image upload failed: could not store file",
		},
		{
			name: "search backend",
			err:  fmt.Errorf("search: %w: %v", service.ErrRemote, errors.New("dial tcp 10.0.0.5:9200: connection refused")),
			code: http.StatusBadGateway,
			want: "remote service error: search failed",
		},
		{
			name: "remote without operation",
			err:  fmt.Errorf("%w: %v", service.ErrRemote, errors.New("broken pipe")),
			code: http.StatusBadGateway,
			want: "remote service error",
		},
		{
			name: "internal",
			err:  errors.New("nil map write"),
			code: http.StatusInternalServerError,
			want: "internal server error",
		},
		{
			name: "validation",
			err:  fmt.Errorf("%w: %s", service.ErrValidation, "name is required"),
			code: http.StatusBadRequest,
			want: "name is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, statusOf(tt.err))
			got := publicMessage(tt.err, tt.code)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "10.0.0.5")
			assert.NotContains(t, got, "/srv/uploads")
		})
	}
}
