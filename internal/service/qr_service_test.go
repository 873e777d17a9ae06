package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type registrationFinderStub struct {
	calls int
	known map[string]bool
}

func (s *registrationFinderStub) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	s.calls++
	if !s.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Registration{ID: id}, nil
}

type memoryCacheRepo struct {
	items map[string][]byte
	err   error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.err != nil {
		return m.err
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestQRServiceRendersAndCaches(t *testing.T) {
	finder := &registrationFinderStub{known: map[string]bool{registrationA: true}}
	repo := newMemoryCacheRepo()
	svc := NewQRService(finder, NewCacheService(repo, nil, time.Minute, nil), 128, time.Hour, nil)

	resp, hit, err := svc.Registration(context.Background(), registrationA)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "registration_reg-1", resp.Data)
	png, err := base64.StdEncoding.DecodeString(resp.QRCode)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
	assert.Contains(t, repo.items, "qr:reg-1")

	again, hit, err := svc.Registration(context.Background(), registrationA)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, resp, again)
	assert.Equal(t, 1, finder.calls)
}

func TestQRServiceUnknownRegistration(t *testing.T) {
	svc := NewQRService(&registrationFinderStub{}, nil, 0, 0, nil)

	_, _, err := svc.Registration(context.Background(), unknownID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestQRServiceCacheFailureFallsBack(t *testing.T) {
	finder := &registrationFinderStub{known: map[string]bool{registrationA: true}}
	repo := newMemoryCacheRepo()
	repo.err = assert.AnError
	svc := NewQRService(finder, NewCacheService(repo, nil, time.Minute, nil), 0, 0, nil)

	resp, hit, err := svc.Registration(context.Background(), registrationA)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "registration_reg-1", resp.Data)
}
