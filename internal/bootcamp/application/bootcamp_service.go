package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/devcamper/internal/shared/infra/utils"
)

// BootcampService agrupa los casos de uso de bootcamps: CRUD, foto y búsqueda por radio.
type BootcampService struct {
	repo          bootcampDomain.BootcampRepository
	geocoder      bootcampDomain.Geocoder
	photos        bootcampDomain.PhotoStorage
	cache         sharedCache.Cache
	cacheTTL      int
	maxPhotoBytes int64
	log           *zap.Logger
}

type BootcampServiceConfig struct {
	CacheTTL      time.Duration
	MaxPhotoBytes int64
}

func NewBootcampService(
	repo bootcampDomain.BootcampRepository,
	geocoder bootcampDomain.Geocoder,
	photos bootcampDomain.PhotoStorage,
	cache sharedCache.Cache,
	cfg BootcampServiceConfig,
	log *zap.Logger,
) *BootcampService {
	return &BootcampService{
		repo:          repo,
		geocoder:      geocoder,
		photos:        photos,
		cache:         cache,
		cacheTTL:      int(cfg.CacheTTL.Seconds()),
		maxPhotoBytes: cfg.MaxPhotoBytes,
		log:           log,
	}
}

// CreateBootcamp crea el bootcamp geocodificando su dirección. Un publisher solo puede tener uno.
func (s *BootcampService) CreateBootcamp(ctx context.Context, p *sharedDomain.Principal, in bootcampDomain.BootcampInput) (*bootcampDomain.Bootcamp, error) {
	if p == nil {
		return nil, sharedDomain.ErrNotAuthorized
	}
	if !p.IsAdmin() {
		n, err := s.repo.CountByOwner(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("%w (user %s)", bootcampDomain.ErrAlreadyPublished, p.ID)
		}
	}

	b, err := bootcampDomain.NewBootcamp(in, p.ID)
	if err != nil {
		return nil, err
	}
	if err := s.locate(ctx, b, in.Address); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.log.Error("Failed to create bootcamp", zap.String("name", b.Name), zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, bootcampDomain.BootcampCacheKeyByID(b.ID), b, s.cacheTTL, s.log)
	return b, nil
}

// GetBootcamp usa cache-aside; la lectura del repositorio se reintenta ante fallos transitorios.
func (s *BootcampService) GetBootcamp(ctx context.Context, id uuid.UUID) (*bootcampDomain.Bootcamp, error) {
	key := bootcampDomain.BootcampCacheKeyByID(id)
	if s.cache != nil {
		var cached bootcampDomain.Bootcamp
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	var b *bootcampDomain.Bootcamp
	var notFound error
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errRetry error
		b, errRetry = s.repo.GetByID(ctx, id)
		if errors.Is(errRetry, bootcampDomain.ErrBootcampNotFound) {
			notFound = errRetry
			return nil
		}
		return errRetry
	})
	if notFound != nil {
		return nil, notFound
	}
	if err != nil {
		s.log.Error("Failed to fetch bootcamp", zap.String("bootcamp_id", id.String()), zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, key, b, s.cacheTTL, s.log)
	return b, nil
}

// UpdateBootcamp aplica los cambios si el principal es dueño o admin. Si cambia la dirección se vuelve a geocodificar.
func (s *BootcampService) UpdateBootcamp(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID, in bootcampDomain.BootcampInput) (*bootcampDomain.Bootcamp, error) {
	b, err := s.owned(ctx, p, id, "update")
	if err != nil {
		return nil, err
	}
	if err := b.Apply(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Address) != "" {
		if err := s.locate(ctx, b, in.Address); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	sharedCache.AsyncCacheDelete(s.cache, bootcampDomain.BootcampCacheKeyByID(id), s.log)
	return b, nil
}

// DeleteBootcamp borra el bootcamp con sus cursos y reviews.
func (s *BootcampService) DeleteBootcamp(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, p, id, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(s.cache, bootcampDomain.BootcampCacheKeyByID(id), s.log)
	s.log.Info("🗑️ Bootcamp eliminado", zap.String("bootcamp_id", id.String()))
	return nil
}

// PhotoUpload describe el fichero recibido en PUT /bootcamps/:id/photo.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadPhoto guarda la imagen como photo_<id><ext> y la asocia al bootcamp.
func (s *BootcampService) UploadPhoto(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID, upload *PhotoUpload) (string, error) {
	if _, err := s.owned(ctx, p, id, "update"); err != nil {
		return "", err
	}
	if upload == nil || upload.Content == nil {
		return "", bootcampDomain.ErrPhotoRequired
	}
	if !strings.HasPrefix(upload.ContentType, "image") {
		return "", bootcampDomain.ErrPhotoNotImage
	}
	if s.maxPhotoBytes > 0 && upload.Size > s.maxPhotoBytes {
		return "", fmt.Errorf("%w (%d bytes)", bootcampDomain.ErrPhotoTooLarge, s.maxPhotoBytes)
	}

	name := fmt.Sprintf("photo_%s%s", id.String(), filepath.Ext(upload.Filename))
	if err := s.photos.Save(ctx, name, upload.Content); err != nil {
		s.log.Error("Failed to store bootcamp photo", zap.String("bootcamp_id", id.String()), zap.Error(err))
		return "", err
	}
	if err := s.repo.SetPhoto(ctx, id, name); err != nil {
		return "", err
	}

	sharedCache.AsyncCacheDelete(s.cache, bootcampDomain.BootcampCacheKeyByID(id), s.log)
	return name, nil
}

// BootcampsInRadius geocodifica el código postal y busca bootcamps a menos de miles millas.
func (s *BootcampService) BootcampsInRadius(ctx context.Context, zipcode string, miles float64) ([]*bootcampDomain.Bootcamp, error) {
	if miles <= 0 {
		return nil, fmt.Errorf("%w: distance must be a positive number of miles", sharedDomain.ErrInvalidInput)
	}
	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}
	return s.repo.WithinRadius(ctx, loc.Longitude, loc.Latitude, bootcampDomain.RadiusInRadians(miles))
}

func (s *BootcampService) owned(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID, action string) (*bootcampDomain.Bootcamp, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanModify(b.UserID) {
		return nil, fmt.Errorf("%w: user %s is not authorized to %s this bootcamp", sharedDomain.ErrForbidden, principalID(p), action)
	}
	return b, nil
}

func (s *BootcampService) locate(ctx context.Context, b *bootcampDomain.Bootcamp, address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: please add an address", bootcampDomain.ErrInvalidBootcamp)
	}
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return err
	}
	b.SetLocation(*loc)
	return nil
}

func principalID(p *sharedDomain.Principal) string {
	if p == nil {
		return "anonymous"
	}
	return p.ID.String()
}
