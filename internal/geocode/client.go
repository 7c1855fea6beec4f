package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/structures"
)

// Resolver turns coordinates into a human-readable address. A failed or timed
// out lookup returns models.ErrGeocodeUnavailable; the caller degrades to an
// empty address instead of dropping the report.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

type NominatimClient struct {
	endpoint  string
	userAgent string
	referer   string
	client    *http.Client
	logger    providers.Logger
}

func NewNominatimClient(conf *structures.Config, logger providers.Logger) *NominatimClient {
	return &NominatimClient{
		endpoint:  conf.Geocode.Endpoint,
		userAgent: conf.Geocode.UserAgent,
		referer:   conf.Geocode.Referer,
		client:    &http.Client{Timeout: conf.Geocode.Timeout},
		logger:    logger,
	}
}

type nominatimAddress struct {
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
}

type nominatimResponse struct {
	Address *nominatimAddress `json:"address"`
}

func (c *NominatimClient) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnf(providers.TypeApp, "Geocode request failed: %s", err)
		return "", models.ErrGeocodeUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnf(providers.TypeApp, "Geocode request returned status %d", resp.StatusCode)
		return "", models.ErrGeocodeUnavailable
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warnf(providers.TypeApp, "Geocode response unreadable: %s", err)
		return "", models.ErrGeocodeUnavailable
	}
	if payload.Address == nil {
		return "", models.ErrGeocodeUnavailable
	}

	addr := FormatAddress(payload.Address.Road, payload.Address.HouseNumber, payload.Address.Postcode, payload.Address.City)
	if addr == "" {
		return "", models.ErrGeocodeUnavailable
	}
	return addr, nil
}

// FormatAddress renders the two-line postal form "road house_number,\npostcode
// city", skipping whatever components the lookup did not return.
func FormatAddress(road, houseNumber, postcode, city string) string {
	street := strings.TrimSpace(road + " " + houseNumber)
	town := strings.TrimSpace(postcode + " " + city)

	switch {
	case street == "" && town == "":
		return ""
	case street == "":
		return town
	case town == "":
		return street
	}
	return street + ",\n" + town
}
