package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/tests/mocks"
)

const bostonAddress = "233 Bay State Rd Boston MA 02215"

type fixture struct {
	bootcamps  *mocks.InMemoryBootcampRepo
	courses    *mocks.InMemoryCourseRepo
	reviews    *mocks.InMemoryReviewRepo
	cache      *mocks.DummyCache
	photos     *mocks.MemoryPhotoStorage
	analytics  *mocks.FakeRatingAnalytics
	geocoder   *mocks.FakeGeocoder
	bootcamp   *BootcampService
	course     *CourseService
	review     *ReviewService
	aggregates *AggregatesService
}

func newFixture() *fixture {
	f := &fixture{
		bootcamps: mocks.NewInMemoryBootcampRepo(),
		courses:   mocks.NewInMemoryCourseRepo(),
		reviews:   mocks.NewInMemoryReviewRepo(),
		cache:     mocks.NewDummyCache(),
		photos:    mocks.NewMemoryPhotoStorage(),
		analytics: &mocks.FakeRatingAnalytics{},
		geocoder: &mocks.FakeGeocoder{Results: map[string]bootcampDomain.GeoResult{
			bostonAddress: {Latitude: 42.350909, Longitude: -71.105965, City: "Boston", State: "MA", Zipcode: "02215", Country: "US"},
			"02118":       {Latitude: 42.3398, Longitude: -71.0701, City: "Boston", Zipcode: "02118"},
			"Lowell MA":   {Latitude: 42.6334, Longitude: -71.3162, City: "Lowell"},
		}},
	}
	f.bootcamps.Cascade = []func(uuid.UUID){f.courses.DeleteByBootcamp, f.reviews.DeleteByBootcamp}

	log := zap.NewNop()
	f.bootcamp = NewBootcampService(f.bootcamps, f.geocoder, f.photos, f.cache, BootcampServiceConfig{CacheTTL: time.Minute, MaxPhotoBytes: 1024}, log)
	f.course = NewCourseService(f.courses, f.bootcamps, log)
	f.review = NewReviewService(f.reviews, f.bootcamps, log)
	f.aggregates = NewAggregatesService(f.bootcamps, f.courses, f.reviews, f.analytics, f.cache, log)
	return f
}

func publisher() *sharedDomain.Principal {
	return &sharedDomain.Principal{ID: uuid.New(), Name: "Publisher", Role: sharedDomain.RolePublisher}
}

func admin() *sharedDomain.Principal {
	return &sharedDomain.Principal{ID: uuid.New(), Name: "Admin", Role: sharedDomain.RoleAdmin}
}

func bootcampInput(name, address string) bootcampDomain.BootcampInput {
	return bootcampDomain.BootcampInput{
		Name:        name,
		Description: "A bootcamp",
		Address:     address,
		Careers:     []bootcampDomain.Career{bootcampDomain.CareerWebDevelopment},
	}
}

func (f *fixture) createBootcamp(t *testing.T, p *sharedDomain.Principal, name, address string) *bootcampDomain.Bootcamp {
	t.Helper()
	b, err := f.bootcamp.CreateBootcamp(context.Background(), p, bootcampInput(name, address))
	require.NoError(t, err)
	return b
}

// ---------- Bootcamps ----------

func TestCreateBootcamp_GeocodesAddress(t *testing.T) {
	f := newFixture()
	b := f.createBootcamp(t, publisher(), "Devworks Bootcamp", bostonAddress)

	require.NotNil(t, b.Location)
	assert.Equal(t, "Point", b.Location.Type)
	assert.Equal(t, []float64{-71.105965, 42.350909}, b.Location.Coordinates)
	assert.Equal(t, "Boston", b.Location.City)
}

func TestCreateBootcamp_PublisherOnlyOne(t *testing.T) {
	f := newFixture()
	p := publisher()
	f.createBootcamp(t, p, "First", bostonAddress)

	_, err := f.bootcamp.CreateBootcamp(context.Background(), p, bootcampInput("Second", bostonAddress))
	assert.ErrorIs(t, err, bootcampDomain.ErrAlreadyPublished)

	// un admin puede publicar varios
	a := admin()
	f.createBootcamp(t, a, "Admin One", bostonAddress)
	f.createBootcamp(t, a, "Admin Two", bostonAddress)
}

func TestCreateBootcamp_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.bootcamp.CreateBootcamp(context.Background(), publisher(), bootcampInput("Nowhere", "unknown place"))
	assert.ErrorIs(t, err, bootcampDomain.ErrAddressNotFound)

	_, err = f.bootcamp.CreateBootcamp(context.Background(), publisher(), bootcampInput("No address", ""))
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidInput)

	_, err = f.bootcamp.CreateBootcamp(context.Background(), nil, bootcampInput("Anon", bostonAddress))
	assert.ErrorIs(t, err, sharedDomain.ErrNotAuthorized)
}

func TestGetBootcamp_CacheAside(t *testing.T) {
	f := newFixture()
	b := f.createBootcamp(t, publisher(), "Devworks", bostonAddress)
	key := bootcampDomain.BootcampCacheKeyByID(b.ID)

	got, err := f.bootcamp.GetBootcamp(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)
	assert.Eventually(t, func() bool { return f.cache.Has(key) }, time.Second, 5*time.Millisecond)

	_, err = f.bootcamp.GetBootcamp(context.Background(), uuid.New())
	assert.ErrorIs(t, err, bootcampDomain.ErrBootcampNotFound)
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
}

func TestUpdateBootcamp_Ownership(t *testing.T) {
	f := newFixture()
	owner := publisher()
	b := f.createBootcamp(t, owner, "Devworks", bostonAddress)

	_, err := f.bootcamp.UpdateBootcamp(context.Background(), publisher(), b.ID, bootcampInput("Hijacked", ""))
	assert.ErrorIs(t, err, sharedDomain.ErrForbidden)

	updated, err := f.bootcamp.UpdateBootcamp(context.Background(), owner, b.ID, bootcampInput("Devworks Reloaded", "Lowell MA"))
	require.NoError(t, err)
	assert.Equal(t, "devworks-reloaded", updated.Slug)
	assert.Equal(t, "Lowell", updated.Location.City)

	_, err = f.bootcamp.UpdateBootcamp(context.Background(), admin(), b.ID, bootcampInput("Admin Edit", ""))
	assert.NoError(t, err)
}

func TestDeleteBootcamp_Cascade(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := publisher()
	b := f.createBootcamp(t, owner, "Devworks", bostonAddress)

	_, err := f.course.AddCourse(ctx, owner, b.ID, courseInput(8000))
	require.NoError(t, err)
	_, err = f.review.AddReview(ctx, &sharedDomain.Principal{ID: uuid.New(), Role: sharedDomain.RoleUser}, b.ID, reviewInput(8))
	require.NoError(t, err)

	assert.ErrorIs(t, f.bootcamp.DeleteBootcamp(ctx, publisher(), b.ID), sharedDomain.ErrForbidden)
	require.NoError(t, f.bootcamp.DeleteBootcamp(ctx, owner, b.ID))

	assert.Empty(t, f.courses.Items)
	assert.Empty(t, f.reviews.Items)
	_, err = f.bootcamps.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, bootcampDomain.ErrBootcampNotFound)
}

func TestUploadPhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := publisher()
	b := f.createBootcamp(t, owner, "Devworks", bostonAddress)

	tests := []struct {
		name   string
		upload *PhotoUpload
		want   error
	}{
		{"sin fichero", nil, bootcampDomain.ErrPhotoRequired},
		{"no es imagen", &PhotoUpload{Filename: "cv.pdf", ContentType: "application/pdf", Size: 10, Content: strings.NewReader("pdf")}, bootcampDomain.ErrPhotoNotImage},
		{"demasiado grande", &PhotoUpload{Filename: "big.jpg", ContentType: "image/jpeg", Size: 4096, Content: strings.NewReader("x")}, bootcampDomain.ErrPhotoTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bootcamp.UploadPhoto(ctx, owner, b.ID, tt.upload)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	name, err := f.bootcamp.UploadPhoto(ctx, owner, b.ID, &PhotoUpload{Filename: "campus.png", ContentType: "image/png", Size: 5, Content: strings.NewReader("image")})
	require.NoError(t, err)
	assert.Equal(t, "photo_"+b.ID.String()+".png", name)
	assert.Equal(t, []byte("image"), f.photos.Files[name])
	assert.Equal(t, name, f.bootcamps.Items[b.ID].Photo)
}

func TestBootcampsInRadius(t *testing.T) {
	f := newFixture()
	boston := f.createBootcamp(t, admin(), "Boston Camp", bostonAddress)
	f.createBootcamp(t, admin(), "Lowell Camp", "Lowell MA")

	found, err := f.bootcamp.BootcampsInRadius(context.Background(), "02118", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, boston.ID, found[0].ID)

	found, err = f.bootcamp.BootcampsInRadius(context.Background(), "02118", 50)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = f.bootcamp.BootcampsInRadius(context.Background(), "02118", 0)
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidInput)
}

// ---------- Cursos ----------

func courseInput(tuition float64) bootcampDomain.CourseInput {
	return bootcampDomain.CourseInput{
		Title: "Full Stack", Description: "MERN", Weeks: "12", Tuition: tuition, MinimumSkill: bootcampDomain.SkillIntermediate,
	}
}

func TestAddCourse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := publisher()
	b := f.createBootcamp(t, owner, "Devworks", bostonAddress)

	_, err := f.course.AddCourse(ctx, publisher(), b.ID, courseInput(8000))
	assert.ErrorIs(t, err, sharedDomain.ErrForbidden)

	_, err = f.course.AddCourse(ctx, owner, uuid.New(), courseInput(8000))
	assert.ErrorIs(t, err, bootcampDomain.ErrBootcampNotFound)

	c, err := f.course.AddCourse(ctx, owner, b.ID, courseInput(8000))
	require.NoError(t, err)
	assert.Equal(t, b.ID, c.BootcampID)
	assert.Equal(t, owner.ID, c.UserID)

	require.Len(t, f.courses.Outbox, 1)
	assert.Equal(t, bootcampDomain.CourseCreated, f.courses.Outbox[0].EventType)
	assert.Equal(t, b.ID.String(), f.courses.Outbox[0].AggregateID)
}

func TestUpdateAndDeleteCourse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := publisher()
	b := f.createBootcamp(t, owner, "Devworks", bostonAddress)
	c, err := f.course.AddCourse(ctx, owner, b.ID, courseInput(8000))
	require.NoError(t, err)

	_, err = f.course.UpdateCourse(ctx, publisher(), c.ID, courseInput(9000))
	assert.ErrorIs(t, err, sharedDomain.ErrForbidden)

	updated, err := f.course.UpdateCourse(ctx, owner, c.ID, courseInput(9000))
	require.NoError(t, err)
	assert.Equal(t, 9000.0, updated.Tuition)

	require.NoError(t, f.course.DeleteCourse(ctx, admin(), c.ID))
	_, err = f.course.GetCourse(ctx, c.ID)
	assert.ErrorIs(t, err, bootcampDomain.ErrCourseNotFound)

	types := []string{}
	for _, evt := range f.courses.Outbox {
		types = append(types, evt.EventType)
	}
	assert.Equal(t, []string{bootcampDomain.CourseCreated, bootcampDomain.CourseUpdated, bootcampDomain.CourseDeleted}, types)
}

// ---------- Reviews ----------

func reviewInput(rating int) bootcampDomain.ReviewInput {
	return bootcampDomain.ReviewInput{Title: "Nice", Text: "Learned a lot", Rating: rating}
}

func TestAddReview_OnePerUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.createBootcamp(t, publisher(), "Devworks", bostonAddress)
	user := &sharedDomain.Principal{ID: uuid.New(), Role: sharedDomain.RoleUser}

	r, err := f.review.AddReview(ctx, user, b.ID, reviewInput(9))
	require.NoError(t, err)
	assert.Equal(t, user.ID, r.UserID)

	_, err = f.review.AddReview(ctx, user, b.ID, reviewInput(3))
	assert.ErrorIs(t, err, bootcampDomain.ErrAlreadyReviewed)

	_, err = f.review.UpdateReview(ctx, &sharedDomain.Principal{ID: uuid.New(), Role: sharedDomain.RoleUser}, r.ID, reviewInput(1))
	assert.ErrorIs(t, err, sharedDomain.ErrForbidden)

	_, err = f.review.UpdateReview(ctx, user, r.ID, reviewInput(11))
	assert.ErrorIs(t, err, bootcampDomain.ErrInvalidReview)
}

// ---------- Agregados ----------

func TestRecalculateAverageCost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := publisher()
	b := f.createBootcamp(t, owner, "Devworks", bostonAddress)

	c1, _ := f.course.AddCourse(ctx, owner, b.ID, courseInput(8000))
	_, _ = f.course.AddCourse(ctx, owner, b.ID, courseInput(9001))

	require.NoError(t, f.aggregates.RecalculateAverageCost(ctx, b.ID))
	require.NotNil(t, f.bootcamps.Items[b.ID].AverageCost)
	assert.Equal(t, 8510.0, *f.bootcamps.Items[b.ID].AverageCost)

	require.NoError(t, f.course.DeleteCourse(ctx, owner, c1.ID))
	require.NoError(t, f.aggregates.RecalculateAverageCost(ctx, b.ID))
	assert.Equal(t, 9010.0, *f.bootcamps.Items[b.ID].AverageCost)
}

func TestRecalculateAverageRating(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.createBootcamp(t, publisher(), "Devworks", bostonAddress)

	var last *bootcampDomain.Review
	for _, rating := range []int{10, 7, 8} {
		r, err := f.review.AddReview(ctx, &sharedDomain.Principal{ID: uuid.New(), Role: sharedDomain.RoleUser}, b.ID, reviewInput(rating))
		require.NoError(t, err)
		last = r
	}

	require.NoError(t, f.aggregates.RecalculateAverageRating(ctx, b.ID))
	assert.InDelta(t, 8.333, *f.bootcamps.Items[b.ID].AverageRating, 0.001)

	require.NoError(t, f.review.DeleteReview(ctx, admin(), last.ID))
	require.NoError(t, f.aggregates.RecalculateAverageRating(ctx, b.ID))
	assert.Equal(t, 8.5, *f.bootcamps.Items[b.ID].AverageRating)
}

func TestRecalculate_NoRowsClearsValue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.createBootcamp(t, publisher(), "Devworks", bostonAddress)

	require.NoError(t, f.aggregates.RecalculateAverageCost(ctx, b.ID))
	assert.Nil(t, f.bootcamps.Items[b.ID].AverageCost)

	// bootcamp borrado antes de procesar el evento
	assert.NoError(t, f.aggregates.RecalculateAverageRating(ctx, uuid.New()))
}

func TestRatingTrend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.createBootcamp(t, publisher(), "Devworks", bostonAddress)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.analytics.Trend = []bootcampDomain.DailyRatingTrend{{Day: day, Reviews: 2, AverageRating: 7.5}}

	trend, err := f.aggregates.RatingTrend(ctx, b.ID, day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Len(t, trend, 1)

	_, err = f.aggregates.RatingTrend(ctx, b.ID, day, day)
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidInput)

	disabled := NewAggregatesService(f.bootcamps, f.courses, f.reviews, nil, nil, zap.NewNop())
	_, err = disabled.RatingTrend(ctx, b.ID, day, day.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrAnalyticsDisabled)
	assert.NoError(t, disabled.LogReviewEvent(ctx, bootcampDomain.ReviewLogEntry{}))
}
