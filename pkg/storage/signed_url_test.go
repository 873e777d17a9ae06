package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("exp-1", "attendance/file.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "exp-1", parsed.ExportID)
	require.Equal(t, "attendance/file.csv", parsed.Path)
	require.WithinDuration(t, expiresAt, parsed.ExpiresAt, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	issued := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }
	token, _, err := signer.Generate("exp-1", "feedback/file.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = signer.Parse(token)
	require.ErrorContains(t, err, "expired")
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("exp-1", "a.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "exp-2"
	_, err = signer.Parse(strings.Join(parts, "."))
	require.ErrorContains(t, err, "signature")

	other := NewSignedURLSigner("other", time.Hour)
	_, err = other.Parse(token)
	require.Error(t, err)

	_, _, err = NewSignedURLSigner("", time.Hour).Generate("exp-1", "a.csv")
	require.Error(t, err)
}
