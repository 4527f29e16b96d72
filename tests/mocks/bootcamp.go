package mocks

import (
	"bytes"
	"context"
	"io"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// ---------- Bootcamps ----------

// InMemoryBootcampRepo guarda copias para que los tests no compartan punteros con el servicio.
type InMemoryBootcampRepo struct {
	mu    sync.RWMutex
	Items map[uuid.UUID]bootcampDomain.Bootcamp
	// Cascade se invoca en Delete para borrar cursos y reviews del bootcamp.
	Cascade []func(bootcampID uuid.UUID)
	Err     error
}

var _ bootcampDomain.BootcampRepository = (*InMemoryBootcampRepo)(nil)

func NewInMemoryBootcampRepo() *InMemoryBootcampRepo {
	return &InMemoryBootcampRepo{Items: map[uuid.UUID]bootcampDomain.Bootcamp{}}
}

func (r *InMemoryBootcampRepo) Create(ctx context.Context, b *bootcampDomain.Bootcamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.Items {
		if existing.Name == b.Name {
			return sharedDomain.ErrDuplicate
		}
	}
	r.Items[b.ID] = *b
	return nil
}

func (r *InMemoryBootcampRepo) Update(ctx context.Context, b *bootcampDomain.Bootcamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[b.ID]; !ok {
		return bootcampDomain.ErrBootcampNotFound
	}
	r.Items[b.ID] = *b
	return nil
}

func (r *InMemoryBootcampRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.Items[id]; !ok {
		r.mu.Unlock()
		return bootcampDomain.ErrBootcampNotFound
	}
	delete(r.Items, id)
	r.mu.Unlock()

	for _, fn := range r.Cascade {
		fn(id)
	}
	return nil
}

func (r *InMemoryBootcampRepo) GetByID(ctx context.Context, id uuid.UUID) (*bootcampDomain.Bootcamp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.Items[id]
	if !ok {
		return nil, bootcampDomain.ErrBootcampNotFound
	}
	return &b, nil
}

func (r *InMemoryBootcampRepo) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, b := range r.Items {
		if b.UserID == owner {
			n++
		}
	}
	return n, nil
}

// WithinRadius aproxima $centerSphere con la distancia de haversine en radianes.
func (r *InMemoryBootcampRepo) WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*bootcampDomain.Bootcamp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*bootcampDomain.Bootcamp
	for _, b := range r.Items {
		if b.Location == nil || len(b.Location.Coordinates) != 2 {
			continue
		}
		if angularDistance(lng, lat, b.Location.Coordinates[0], b.Location.Coordinates[1]) <= radians {
			bc := b
			out = append(out, &bc)
		}
	}
	return out, nil
}

func (r *InMemoryBootcampRepo) SetPhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return r.mutate(id, func(b *bootcampDomain.Bootcamp) { b.Photo = photo })
}

func (r *InMemoryBootcampRepo) SetAverageCost(ctx context.Context, id uuid.UUID, cost *float64) error {
	return r.mutate(id, func(b *bootcampDomain.Bootcamp) { b.AverageCost = cost })
}

func (r *InMemoryBootcampRepo) SetAverageRating(ctx context.Context, id uuid.UUID, rating *float64) error {
	return r.mutate(id, func(b *bootcampDomain.Bootcamp) { b.AverageRating = rating })
}

func (r *InMemoryBootcampRepo) mutate(id uuid.UUID, fn func(*bootcampDomain.Bootcamp)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.Items[id]
	if !ok {
		return bootcampDomain.ErrBootcampNotFound
	}
	fn(&b)
	r.Items[id] = b
	return nil
}

func angularDistance(lng1, lat1, lng2, lat2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ---------- Cursos ----------

type InMemoryCourseRepo struct {
	mu     sync.RWMutex
	Items  map[uuid.UUID]bootcampDomain.Course
	Outbox []sharedDomain.OutboxEvent
}

var _ bootcampDomain.CourseRepository = (*InMemoryCourseRepo)(nil)

func NewInMemoryCourseRepo() *InMemoryCourseRepo {
	return &InMemoryCourseRepo{Items: map[uuid.UUID]bootcampDomain.Course{}}
}

func (r *InMemoryCourseRepo) Create(ctx context.Context, c *bootcampDomain.Course, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items[c.ID] = *c
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryCourseRepo) Update(ctx context.Context, c *bootcampDomain.Course, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[c.ID]; !ok {
		return bootcampDomain.ErrCourseNotFound
	}
	r.Items[c.ID] = *c
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryCourseRepo) Delete(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[id]; !ok {
		return bootcampDomain.ErrCourseNotFound
	}
	delete(r.Items, id)
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*bootcampDomain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.Items[id]
	if !ok {
		return nil, bootcampDomain.ErrCourseNotFound
	}
	return &c, nil
}

func (r *InMemoryCourseRepo) AverageTuition(ctx context.Context, bootcampID uuid.UUID) (float64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	var n int64
	for _, c := range r.Items {
		if c.BootcampID == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}

// DeleteByBootcamp se usa como cascada de InMemoryBootcampRepo.
func (r *InMemoryCourseRepo) DeleteByBootcamp(bootcampID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.Items {
		if c.BootcampID == bootcampID {
			delete(r.Items, id)
		}
	}
}

// ---------- Reviews ----------

type InMemoryReviewRepo struct {
	mu     sync.RWMutex
	Items  map[uuid.UUID]bootcampDomain.Review
	Outbox []sharedDomain.OutboxEvent
}

var _ bootcampDomain.ReviewRepository = (*InMemoryReviewRepo)(nil)

func NewInMemoryReviewRepo() *InMemoryReviewRepo {
	return &InMemoryReviewRepo{Items: map[uuid.UUID]bootcampDomain.Review{}}
}

// Create replica el índice único (bootcamp, user).
func (r *InMemoryReviewRepo) Create(ctx context.Context, rv *bootcampDomain.Review, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Items {
		if existing.BootcampID == rv.BootcampID && existing.UserID == rv.UserID {
			return bootcampDomain.ErrAlreadyReviewed
		}
	}
	r.Items[rv.ID] = *rv
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryReviewRepo) Update(ctx context.Context, rv *bootcampDomain.Review, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[rv.ID]; !ok {
		return bootcampDomain.ErrReviewNotFound
	}
	r.Items[rv.ID] = *rv
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryReviewRepo) Delete(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[id]; !ok {
		return bootcampDomain.ErrReviewNotFound
	}
	delete(r.Items, id)
	r.Outbox = append(r.Outbox, evt)
	return nil
}

func (r *InMemoryReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*bootcampDomain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.Items[id]
	if !ok {
		return nil, bootcampDomain.ErrReviewNotFound
	}
	return &rv, nil
}

func (r *InMemoryReviewRepo) AverageRating(ctx context.Context, bootcampID uuid.UUID) (float64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	var n int64
	for _, rv := range r.Items {
		if rv.BootcampID == bootcampID {
			sum += float64(rv.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}

func (r *InMemoryReviewRepo) DeleteByBootcamp(bootcampID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rv := range r.Items {
		if rv.BootcampID == bootcampID {
			delete(r.Items, id)
		}
	}
}

// ---------- Servicios externos ----------

// FakeGeocoder resuelve direcciones a partir de una tabla fija.
type FakeGeocoder struct {
	Results map[string]bootcampDomain.GeoResult
	Calls   int
}

func (g *FakeGeocoder) Geocode(ctx context.Context, address string) (*bootcampDomain.GeoResult, error) {
	g.Calls++
	res, ok := g.Results[address]
	if !ok {
		return nil, bootcampDomain.ErrAddressNotFound
	}
	return &res, nil
}

// MemoryPhotoStorage guarda el contenido de las fotos subidas.
type MemoryPhotoStorage struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func NewMemoryPhotoStorage() *MemoryPhotoStorage {
	return &MemoryPhotoStorage{Files: map[string][]byte{}}
}

func (s *MemoryPhotoStorage) Save(ctx context.Context, name string, content io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return err
	}
	s.mu.Lock()
	s.Files[name] = buf.Bytes()
	s.mu.Unlock()
	return nil
}

// FakeRatingAnalytics acumula las entradas registradas y devuelve una tendencia fija.
type FakeRatingAnalytics struct {
	mu      sync.Mutex
	Entries []bootcampDomain.ReviewLogEntry
	Trend   []bootcampDomain.DailyRatingTrend
}

func (a *FakeRatingAnalytics) LogReviewEvents(ctx context.Context, entries []bootcampDomain.ReviewLogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, entries...)
	return nil
}

func (a *FakeRatingAnalytics) GetDailyTrend(ctx context.Context, bootcampID uuid.UUID, start, end time.Time) ([]bootcampDomain.DailyRatingTrend, error) {
	return a.Trend, nil
}

func (a *FakeRatingAnalytics) Logged() []bootcampDomain.ReviewLogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]bootcampDomain.ReviewLogEntry(nil), a.Entries...)
}
