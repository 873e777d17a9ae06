package service

import (
	"context"
	"encoding/base64"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

type registrationFinder interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
}

// QRService renders a registration's check-in QR code as a base64 PNG.
// Rendered payloads are cached; a miss or an unavailable cache falls back to rendering.
type QRService struct {
	registrations registrationFinder
	cache         *CacheService
	size          int
	ttl           time.Duration
	logger        *zap.Logger
}

// NewQRService constructs QRService. cache may be nil.
func NewQRService(registrations registrationFinder, cache *CacheService, size int, ttl time.Duration, logger *zap.Logger) *QRService {
	if size <= 0 {
		size = DefaultQRSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QRService{registrations: registrations, cache: cache, size: size, ttl: ttl, logger: logger}
}

// QRPayload is the text encoded for a registration.
func QRPayload(registrationID string) string {
	return "registration_" + registrationID
}

func qrCacheKey(registrationID string) string {
	return "qr:" + registrationID
}

// Registration returns the QR code of an existing registration and whether it came from cache.
func (s *QRService) Registration(ctx context.Context, registrationID string) (*dto.RegistrationQRResponse, bool, error) {
	if err := checkID(registrationID, "registration not found"); err != nil {
		return nil, false, err
	}
	var cached dto.RegistrationQRResponse
	if s.cache.Get(ctx, qrCacheKey(registrationID), &cached) {
		return &cached, true, nil
	}

	if _, err := s.registrations.FindByID(ctx, registrationID); err != nil {
		return nil, false, lookupError(err, "registration not found", "failed to load registration")
	}
	data := QRPayload(registrationID)
	png, err := qrcode.Encode(data, qrcode.Medium, s.size)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to render qr code")
	}
	resp := &dto.RegistrationQRResponse{QRCode: base64.StdEncoding.EncodeToString(png), Data: data}
	s.cache.Set(ctx, qrCacheKey(registrationID), resp, s.ttl)
	return resp, false, nil
}
