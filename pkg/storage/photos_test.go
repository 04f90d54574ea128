package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSample = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 32)...)

func TestPhotoStoreSaveAndRead(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), 1024, []string{"image/png", "image/jpeg"})
	require.NoError(t, err)

	ref, err := store.Save("stu-1", bytes.NewReader(pngSample))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "journals/stu-1/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	data, mime, err := store.Read(ref)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngSample, data)

	require.NoError(t, store.Delete(ref))
	_, _, err = store.Read(ref)
	assert.Error(t, err)
}

func TestPhotoStoreRejectsInvalidUploads(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), 16, []string{"image/png"})
	require.NoError(t, err)

	_, err = store.Save("stu-1", bytes.NewReader(pngSample))
	assert.True(t, IsTooLarge(err))

	store.maxBytes = 1024
	_, err = store.Save("stu-1", strings.NewReader("plain text body"))
	assert.True(t, IsUnsupported(err))

	_, _, err = store.Read("../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
