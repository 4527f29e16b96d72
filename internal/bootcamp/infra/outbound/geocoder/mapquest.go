package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
)

const DefaultMapQuestURL = "https://www.mapquestapi.com/geocoding/v1/address"

// MapQuestGeocoder resuelve direcciones con la API de geocoding de MapQuest.
type MapQuestGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *zap.Logger
}

func NewMapQuestGeocoder(apiKey string, client *http.Client, log *zap.Logger) *MapQuestGeocoder {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &MapQuestGeocoder{client: client, baseURL: DefaultMapQuestURL, apiKey: apiKey, log: log}
}

// WithBaseURL cambia el endpoint (tests o proxies).
func (g *MapQuestGeocoder) WithBaseURL(u string) *MapQuestGeocoder {
	g.baseURL = u
	return g
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			AdminArea5 string `json:"adminArea5"` // ciudad
			AdminArea3 string `json:"adminArea3"` // estado
			AdminArea1 string `json:"adminArea1"` // país
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (g *MapQuestGeocoder) Geocode(ctx context.Context, address string) (*bootcampDomain.GeoResult, error) {
	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("location", address)
	q.Set("maxResults", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapquest request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapquest status %d", resp.StatusCode)
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("mapquest decode: %w", err)
	}
	if body.Info.StatusCode != 0 {
		g.log.Warn("⚠️ MapQuest devolvió error", zap.Int("status", body.Info.StatusCode), zap.Strings("messages", body.Info.Messages))
		return nil, fmt.Errorf("mapquest status %d: %s", body.Info.StatusCode, strings.Join(body.Info.Messages, "; "))
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, bootcampDomain.ErrAddressNotFound
	}

	loc := body.Results[0].Locations[0]
	res := &bootcampDomain.GeoResult{
		Latitude:  loc.LatLng.Lat,
		Longitude: loc.LatLng.Lng,
		Street:    loc.Street,
		City:      loc.AdminArea5,
		State:     loc.AdminArea3,
		Zipcode:   loc.PostalCode,
		Country:   loc.AdminArea1,
	}
	res.FormattedAddress = formatAddress(res)
	return res, nil
}

// formatAddress compone "calle, ciudad, estado cp, país" omitiendo las partes vacías.
func formatAddress(r *bootcampDomain.GeoResult) string {
	region := strings.TrimSpace(r.State + " " + r.Zipcode)
	var parts []string
	for _, p := range []string{r.Street, r.City, region, r.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

var _ bootcampDomain.Geocoder = (*MapQuestGeocoder)(nil)
