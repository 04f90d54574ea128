package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("entry-1", "journals/stu-1/1.jpg")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	entryID, ref, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "entry-1", entryID)
	require.Equal(t, "journals/stu-1/1.jpg", ref)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("entry-1", "journals/stu-1/1.jpg")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, err = other.Parse(token)
	require.Error(t, err)

	_, _, err = signer.Parse("entry-2" + token[len("entry-1"):])
	require.Error(t, err)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	signer.ttl = -time.Second
	token, _, err := signer.Generate("entry-1", "journals/stu-1/1.jpg")
	require.NoError(t, err)

	_, _, err = signer.Parse(token)
	require.Error(t, err)
}
