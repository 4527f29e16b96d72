package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
)

func TestMapQuestGeocoder_Geocode(t *testing.T) {
	var gotKey, gotLocation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotLocation = r.URL.Query().Get("location")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"info": {"statuscode": 0},
			"results": [{"locations": [{
				"street": "233 Bay State Rd", "adminArea5": "Boston", "adminArea3": "MA",
				"adminArea1": "US", "postalCode": "02215",
				"latLng": {"lat": 42.350846, "lng": -71.103148}
			}]}]
		}`))
	}))
	defer srv.Close()

	g := NewMapQuestGeocoder("secret", srv.Client(), zap.NewNop()).WithBaseURL(srv.URL)
	res, err := g.Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "233 Bay State Rd Boston MA 02215", gotLocation)
	assert.InDelta(t, 42.350846, res.Latitude, 1e-9)
	assert.InDelta(t, -71.103148, res.Longitude, 1e-9)
	assert.Equal(t, "233 Bay State Rd, Boston, MA 02215, US", res.FormattedAddress)
}

func TestMapQuestGeocoder_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info": {"statuscode": 0}, "results": []}`))
	}))
	defer srv.Close()

	g := NewMapQuestGeocoder("k", srv.Client(), zap.NewNop()).WithBaseURL(srv.URL)
	_, err := g.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, bootcampDomain.ErrAddressNotFound)
}

func TestMapQuestGeocoder_ApiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info": {"statuscode": 403, "messages": ["bad key"]}, "results": []}`))
	}))
	defer srv.Close()

	g := NewMapQuestGeocoder("k", srv.Client(), zap.NewNop()).WithBaseURL(srv.URL)
	_, err := g.Geocode(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, bootcampDomain.ErrAddressNotFound)
	assert.Contains(t, err.Error(), "bad key")
}

func TestStaticGeocoder(t *testing.T) {
	g := DefaultStaticGeocoder()

	res, err := g.Geocode(context.Background(), "233 bay state rd,  Boston MA 02215")
	require.NoError(t, err)
	assert.Equal(t, "Boston", res.City)
	assert.Equal(t, "233 Bay State Rd, Boston, MA 02215, US", res.FormattedAddress)

	_, err = g.Geocode(context.Background(), "unknown")
	assert.ErrorIs(t, err, bootcampDomain.ErrAddressNotFound)
}
