package images

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "card.png", want: "card.png"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `..\..\boot.ini`, want: "boot.ini"},
		{in: "my card (1).png", want: "my_card__1_.png"},
		{in: ".hidden", want: "hidden"},
		{in: "", wantErr: true},
		{in: "..", wantErr: true},
		{in: "dir/", want: "dir"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := SanitizeFilename(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeData(t *testing.T) {
	t.Parallel()

	b64 := base64.StdEncoding.EncodeToString(pngHeader)

	data, ct, err := DecodeData("data:image/webp;base64," + b64)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/webp", ct)

	data, ct, err = DecodeData(b64)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = DecodeData("data:image/png," + b64)
	assert.ErrorIs(t, err, ErrInvalidData)

	_, _, err = DecodeData("%%% not base64 %%%")
	assert.ErrorIs(t, err, ErrInvalidData)

	_, _, err = DecodeData("")
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestSaveAndLoad_DiskStore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewDiskStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := Save(ctx, store, "../card 1.png", base64.StdEncoding.EncodeToString(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "/giftcard-images/card_1.png", p)

	onDisk, err := os.ReadFile(filepath.Join(root, "giftcards", "card_1.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, onDisk)

	data, ct, err := Load(ctx, store, "card_1.png")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = Load(ctx, store, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = Load(ctx, store, "..")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_RejectsBadInput(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = Save(ctx, store, "", "aGVsbG8=")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = Save(ctx, store, "a.png", "!!!")
	assert.ErrorIs(t, err, ErrInvalidData)
}

// Runs against a real MinIO when MINIO_TEST_ENDPOINT is set.
func TestMinioStore(t *testing.T) {
	endpoint := os.Getenv("MINIO_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_TEST_ENDPOINT not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	store, err := NewMinioStore(ctx, MinioConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("MINIO_TEST_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_TEST_SECRET_KEY"),
		Bucket:    "giftcard-test",
	})
	require.NoError(t, err)

	name := uuid.NewString() + ".png"
	p, err := Save(ctx, store, name, base64.StdEncoding.EncodeToString(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, PublicPath+name, p)

	data, ct, err := Load(ctx, store, name)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = Load(ctx, store, "missing-"+name)
	assert.ErrorIs(t, err, ErrNotFound)
}
