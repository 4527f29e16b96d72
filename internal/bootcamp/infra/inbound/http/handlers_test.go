package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	bootcampHTTP "github.com/davicafu/devcamper/internal/bootcamp/infra/inbound/http"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/davicafu/devcamper/tests/mocks"
)

const bostonAddress = "233 Bay State Rd Boston MA 02215"

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router       *gin.Engine
	bootcamps    *mocks.InMemoryBootcampRepo
	photos       *mocks.MemoryPhotoStorage
	courseStore  *mocks.InMemoryStore
	publisherTok string
	userTok      string
	publisher    *sharedDomain.Principal
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zap.NewNop()

	bootcamps := mocks.NewInMemoryBootcampRepo()
	courses := mocks.NewInMemoryCourseRepo()
	reviews := mocks.NewInMemoryReviewRepo()
	cache := mocks.NewDummyCache()
	photos := mocks.NewMemoryPhotoStorage()
	analytics := &mocks.FakeRatingAnalytics{Trend: []bootcampDomain.DailyRatingTrend{
		{Day: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Reviews: 2, AverageRating: 8.5},
	}}
	geocoder := &mocks.FakeGeocoder{Results: map[string]bootcampDomain.GeoResult{
		bostonAddress: {Latitude: 42.350909, Longitude: -71.105965, City: "Boston", Zipcode: "02215"},
		"02118":       {Latitude: 42.3398, Longitude: -71.0701, Zipcode: "02118"},
	}}

	bootcampSvc := application.NewBootcampService(bootcamps, geocoder, photos, cache,
		application.BootcampServiceConfig{CacheTTL: time.Minute, MaxPhotoBytes: 1 << 20}, log)
	aggregates := application.NewAggregatesService(bootcamps, courses, reviews, analytics, cache, log)

	auth := mocks.NewStaticAuthenticator()
	pub := &sharedDomain.Principal{ID: uuid.New(), Name: "Pub", Role: sharedDomain.RolePublisher}
	api := &testAPI{
		bootcamps:    bootcamps,
		photos:       photos,
		courseStore:  mocks.NewInMemoryStore(),
		publisher:    pub,
		publisherTok: auth.Issue("pub-token", pub),
		userTok:      auth.Issue("user-token", &sharedDomain.Principal{ID: uuid.New(), Role: sharedDomain.RoleUser}),
	}

	r := gin.New()
	r.Use(middleware.ErrorHandler(log))
	bootcampHTTP.RegisterBootcampRoutes(r.Group("/api/v1"),
		bootcampHTTP.Handlers{
			Bootcamps: bootcampHTTP.NewBootcampHandler(bootcampSvc, aggregates),
			Courses:   bootcampHTTP.NewCourseHandler(application.NewCourseService(courses, bootcamps, log)),
			Reviews:   bootcampHTTP.NewReviewHandler(application.NewReviewService(reviews, bootcamps, log)),
		},
		bootcampHTTP.Stores{
			Bootcamps: mocks.NewInMemoryStore(),
			Courses:   api.courseStore,
			Reviews:   mocks.NewInMemoryStore(),
		},
		auth, 25,
	)
	api.router = r
	return api
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type bootcampBody struct {
	Success bool                    `json:"success"`
	Data    bootcampDomain.Bootcamp `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func newBootcampPayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": "Full stack web development",
		"address":     bostonAddress,
		"careers":     []string{"Web Development"},
		"housing":     true,
	}
}

func (a *testAPI) createBootcamp(t *testing.T) bootcampDomain.Bootcamp {
	t.Helper()
	w := a.do(http.MethodPost, "/api/v1/bootcamps", a.publisherTok, newBootcampPayload("Devworks Bootcamp"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body bootcampBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestCreateBootcamp_Auth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/bootcamps", "", newBootcampPayload("X"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/v1/bootcamps", api.userTok, newBootcampPayload("X"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "user role user is not authorized")
}

func TestCreateAndGetBootcamp(t *testing.T) {
	api := newTestAPI(t)
	created := api.createBootcamp(t)

	assert.Equal(t, "devworks-bootcamp", created.Slug)
	assert.Equal(t, api.publisher.ID, created.UserID)
	require.NotNil(t, created.Location)
	assert.Equal(t, "02215", created.Location.Zipcode)

	w := api.do(http.MethodGet, "/api/v1/bootcamps/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body bootcampBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, created.ID, body.Data.ID)
}

func TestGetBootcamp_NotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/bootcamps/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "resource with id of not-a-uuid not found", body.Error)

	w = api.do(http.MethodGet, "/api/v1/bootcamps/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBootcamp_Partial(t *testing.T) {
	api := newTestAPI(t)
	created := api.createBootcamp(t)

	w := api.do(http.MethodPut, "/api/v1/bootcamps/"+created.ID.String(), api.publisherTok,
		map[string]interface{}{"description": "Updated", "jobGuarantee": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body bootcampBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Devworks Bootcamp", body.Data.Name)
	assert.Equal(t, "Updated", body.Data.Description)
	assert.True(t, body.Data.Housing)
	assert.True(t, body.Data.JobGuarantee)
}

func TestDeleteBootcamp(t *testing.T) {
	api := newTestAPI(t)
	created := api.createBootcamp(t)

	w := api.do(http.MethodDelete, "/api/v1/bootcamps/"+created.ID.String(), api.publisherTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "data": {}}`, w.Body.String())

	_, err := api.bootcamps.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, bootcampDomain.ErrBootcampNotFound)
}

func photoRequest(t *testing.T, path, token, filename, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, bootcampHTTP.PhotoField, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("fake-image"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadPhoto(t *testing.T) {
	api := newTestAPI(t)
	created := api.createBootcamp(t)
	path := "/api/v1/bootcamps/" + created.ID.String() + "/photo"

	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, photoRequest(t, path, api.publisherTok, "pic.jpg", "image/jpeg"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	name := "photo_" + created.ID.String() + ".jpg"
	assert.JSONEq(t, fmt.Sprintf(`{"success": true, "data": %q}`, name), w.Body.String())
	assert.Equal(t, []byte("fake-image"), api.photos.Files[name])

	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, photoRequest(t, path, api.publisherTok, "doc.pdf", "application/pdf"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// sin fichero
	w = api.do(http.MethodPut, path, api.publisherTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "please upload a file")
}

func TestBootcampsInRadius(t *testing.T) {
	api := newTestAPI(t)
	api.createBootcamp(t)

	w := api.do(http.MethodGet, "/api/v1/bootcamps/radius/02118/10", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)

	w = api.do(http.MethodGet, "/api/v1/bootcamps/radius/02118/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNestedCourses_Scoped(t *testing.T) {
	api := newTestAPI(t)
	target := uuid.NewString()
	api.courseStore.Records = []query.Record{
		{"id": "c1", "title": "Front End", "bootcamp": target, "tuition": 8000.0},
		{"id": "c2", "title": "Back End", "bootcamp": uuid.NewString(), "tuition": 9000.0},
		{"id": "c3", "title": "UI/UX", "bootcamp": target, "tuition": 10000.0},
	}

	w := api.do(http.MethodGet, "/api/v1/bootcamps/"+target+"/courses?tuition[gt]=8500", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env query.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, 1, env.Count)
	assert.Equal(t, "c3", env.Data[0]["id"])
}

func TestListCourses_PopulatesBootcamp(t *testing.T) {
	api := newTestAPI(t)
	bootcampID := uuid.NewString()
	api.courseStore.Records = []query.Record{{"id": "c1", "title": "Front End", "bootcamp": bootcampID}}
	api.courseStore.Related = map[string][]query.Record{
		"bootcamps": {{"id": bootcampID, "name": "Devworks", "description": "d", "phone": "555"}},
	}

	w := api.do(http.MethodGet, "/api/v1/courses?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env query.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	bootcamp, ok := env.Data[0]["bootcamp"].(map[string]interface{})
	require.True(t, ok, "bootcamp debe venir poblado: %v", env.Data[0])
	assert.Equal(t, "Devworks", bootcamp["name"])
	assert.NotContains(t, bootcamp, "phone")
}

func TestCourseAndReviewRoutes(t *testing.T) {
	api := newTestAPI(t)
	created := api.createBootcamp(t)
	base := "/api/v1/bootcamps/" + created.ID.String()

	w := api.do(http.MethodPost, base+"/courses", api.publisherTok, map[string]interface{}{
		"title": "Front End", "description": "HTML", "weeks": "8", "tuition": 8000, "minimumSkill": "beginner",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course struct {
		Data bootcampDomain.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))

	w = api.do(http.MethodPut, "/api/v1/courses/"+course.Data.ID.String(), api.publisherTok, map[string]interface{}{"tuition": 9000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"Front End"`)

	// los publishers no escriben reviews
	w = api.do(http.MethodPost, base+"/reviews", api.publisherTok, map[string]interface{}{"title": "t", "text": "x", "rating": 8})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, base+"/reviews", api.userTok, map[string]interface{}{"title": "Great", "text": "Learned a lot", "rating": 8})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, base+"/reviews", api.userTok, map[string]interface{}{"title": "Again", "text": "x", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRatingTrend(t *testing.T) {
	api := newTestAPI(t)
	created := api.createBootcamp(t)

	w := api.do(http.MethodGet, "/api/v1/bootcamps/"+created.ID.String()+"/ratings/trend?start=2026-01-01&end=2026-01-31", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.Contains(w.Body.String(), `"averageRating":8.5`))

	w = api.do(http.MethodGet, "/api/v1/bootcamps/"+created.ID.String()+"/ratings/trend?start=2026-02-01&end=2026-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
