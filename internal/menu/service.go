package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/media"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/storage"
	"restaurant-order-services/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ObjectStore is the subset of storage.ObjectStore used for menu photos.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string, cacheControl string) (string, error)
	DeleteURL(ctx context.Context, raw string) error
}

type Service struct {
	Store   store.Store
	Objects ObjectStore
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewService(s store.Store, objects ObjectStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Store:   s,
		Objects: objects,
		Logger:  logger,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

type ItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	IsAvailable *bool           `json:"isAvailable"`
}

func (in *ItemInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return apperror.Validation("Name is required")
	}
	if in.Price.IsNegative() {
		return apperror.Validation("Price cannot be negative")
	}
	return nil
}

func (in ItemInput) available() bool {
	return in.IsAvailable == nil || *in.IsAvailable
}

func (s *Service) Create(ctx context.Context, in ItemInput) (models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.Store.CreateMenuItem(ctx, models.MenuItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Category:    in.Category,
		IsAvailable: in.available(),
	})
	if err != nil {
		return models.MenuItem{}, apperror.Unexpected(err)
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (models.MenuItem, error) {
	item, err := s.Store.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.MenuItem{}, apperror.NotFound("Menu item not found")
		}
		return models.MenuItem{}, apperror.Unexpected(err)
	}
	return item, nil
}

// List returns the menu grouped by category. A nil filter returns every item.
func (s *Service) List(ctx context.Context, available *bool) ([]models.MenuItem, error) {
	list, err := s.Store.ListMenuItems(ctx, available)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return list, nil
}

// Update replaces the editable fields. Existing order lines keep their
// snapshotted name and price.
func (s *Service) Update(ctx context.Context, id int64, in ItemInput) (models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return models.MenuItem{}, err
	}
	ok, err := s.Store.UpdateMenuItem(ctx, models.MenuItem{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Category:    in.Category,
		IsAvailable: in.available(),
	})
	if err != nil {
		return models.MenuItem{}, apperror.Unexpected(err)
	}
	if !ok {
		return models.MenuItem{}, apperror.NotFound("Menu item not found")
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.Store.DeleteMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrReferenced) {
			return apperror.Conflict("Menu item is referenced by existing orders; mark it unavailable instead")
		}
		return apperror.Unexpected(err)
	}
	if !ok {
		return apperror.NotFound("Menu item not found")
	}
	s.dropPhotos(ctx, item)
	return nil
}

// UploadPhoto stores a normalised photo and thumbnail for the item and
// removes the previous pair.
func (s *Service) UploadPhoto(ctx context.Context, id int64, data []byte, contentType string) (models.MenuItem, error) {
	if s.Objects == nil {
		return models.MenuItem{}, apperror.Unavailable("STORAGE_DISABLED", "Photo storage is not configured")
	}
	if contentType == "" {
		contentType = media.DetectContentType(data)
	}
	if !media.Accepts(contentType) {
		return models.MenuItem{}, apperror.Validation("Unsupported image type")
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return models.MenuItem{}, err
	}

	photo, err := media.Normalize(data)
	if err != nil {
		if errors.Is(err, media.ErrHEICUnavailable) {
			return models.MenuItem{}, apperror.Validation("HEIC photos are not supported by this server")
		}
		return models.MenuItem{}, apperror.Validation("Image could not be decoded")
	}

	prefix := fmt.Sprintf("menu/%d", id)
	now := s.Now()
	fullURL, err := s.Objects.PutObject(ctx, storage.NewKey(prefix, "jpg", now), photo.Full, "image/jpeg", "")
	if err != nil {
		return models.MenuItem{}, apperror.Unexpected(err)
	}
	thumbURL, err := s.Objects.PutObject(ctx, storage.NewKey(prefix+"/thumb", "jpg", now), photo.Thumbnail, "image/jpeg", "")
	if err != nil {
		return models.MenuItem{}, apperror.Unexpected(err)
	}

	ok, err := s.Store.SetMenuItemImages(ctx, id, fullURL, thumbURL)
	if err != nil {
		return models.MenuItem{}, apperror.Unexpected(err)
	}
	if !ok {
		return models.MenuItem{}, apperror.NotFound("Menu item not found")
	}

	s.dropPhotos(ctx, item)
	item.ImageURL = &fullURL
	item.ThumbnailURL = &thumbURL
	return item, nil
}

func (s *Service) dropPhotos(ctx context.Context, item models.MenuItem) {
	if s.Objects == nil {
		return
	}
	for _, u := range []*string{item.ImageURL, item.ThumbnailURL} {
		if u == nil || *u == "" {
			continue
		}
		if err := s.Objects.DeleteURL(ctx, *u); err != nil {
			s.Logger.Warn("menu photo cleanup failed", zap.Int64("menuItemId", item.ID), zap.String("url", *u), zap.Error(err))
		}
	}
}
