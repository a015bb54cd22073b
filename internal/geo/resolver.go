package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrResolution indicates the origin of an address could not be determined,
// whether from a transport failure, a timeout, or an unresolvable address.
// Callers enforcing geo policy treat it as a denial (fail-closed).
var ErrResolution = errors.New("origin resolution failed")

// Resolver maps a network address to a geographic origin. Implementations
// call out to an external lookup service and may fail or time out.
type Resolver interface {
	ResolveCountry(ctx context.Context, address string) (string, error)
	ResolveLocation(ctx context.Context, address string) (string, error)
}

// IPAPIResolver resolves origins against the ip-api.com JSON endpoint.
type IPAPIResolver struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewIPAPIResolver creates a resolver with a locally enforced lookup timeout.
func NewIPAPIResolver(baseURL string, timeout time.Duration, logger *slog.Logger) *IPAPIResolver {
	return &IPAPIResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type ipAPIResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
	Country     string `json:"country"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
}

func (r *IPAPIResolver) lookup(ctx context.Context, address string) (*ipAPIResponse, error) {
	endpoint := fmt.Sprintf("%s/json/%s", r.baseURL, url.PathEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolution, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("origin lookup failed", slog.String("address", address), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrResolution, resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolution, err)
	}

	// ip-api reports lookup failures in-band with a 200 status
	if body.Status != "success" {
		return nil, fmt.Errorf("%w: lookup status %q", ErrResolution, body.Status)
	}

	return &body, nil
}

// ResolveCountry returns the ISO country code for an address.
func (r *IPAPIResolver) ResolveCountry(ctx context.Context, address string) (string, error) {
	body, err := r.lookup(ctx, address)
	if err != nil {
		return "", err
	}
	if body.CountryCode == "" {
		return "", fmt.Errorf("%w: empty country code", ErrResolution)
	}
	return body.CountryCode, nil
}

// ResolveLocation returns a best-effort human-readable location label.
func (r *IPAPIResolver) ResolveLocation(ctx context.Context, address string) (string, error) {
	body, err := r.lookup(ctx, address)
	if err != nil {
		return "", err
	}

	switch {
	case body.City != "" && body.Country != "":
		return fmt.Sprintf("%s, %s", body.City, body.Country), nil
	case body.Country != "":
		return body.Country, nil
	default:
		return "", fmt.Errorf("%w: empty location", ErrResolution)
	}
}
