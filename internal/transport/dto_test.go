package transport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{name: "ok", req: RegisterRequest{Username: "aldo", Password: "secret"}},
		{name: "minimum lengths", req: RegisterRequest{Username: "abc", Password: "123456"}},
		{name: "short username", req: RegisterRequest{Username: "ab", Password: "secret"}, wantErr: true},
		{name: "short password", req: RegisterRequest{Username: "aldo", Password: "12345"}, wantErr: true},
		{name: "empty username", req: RegisterRequest{Password: "secret"}, wantErr: true},
		{name: "empty password", req: RegisterRequest{Username: "aldo"}, wantErr: true},
		{name: "maximum password", req: RegisterRequest{Username: "aldo", Password: strings.Repeat("p", 72)}},
		{name: "long password", req: RegisterRequest{Username: "aldo", Password: strings.Repeat("p", 73)}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginAndCreateRequests_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&LoginRequest{Username: "a", Password: "b"}).Validate())
	assert.Error(t, (&LoginRequest{Username: "a"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "b"}).Validate())

	assert.NoError(t, (&CreateGiftcardRequest{Code: "GC-001"}).Validate())
	assert.Error(t, (&CreateGiftcardRequest{}).Validate())

	assert.NoError(t, (&SaveImageRequest{ImageData: "aGk=", Filename: "a.png"}).Validate())
	assert.Error(t, (&SaveImageRequest{Filename: "a.png"}).Validate())
	assert.Error(t, (&SaveImageRequest{ImageData: "aGk="}).Validate())
}
