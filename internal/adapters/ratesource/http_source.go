package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// HTTPSource fetches quotes from a JSON rate provider. The provider exposes
// GET {baseURL}/rates/{from}/{to} returning
// {"rate": "...", "updated_at": "...", "source": "..."}.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source against the given provider base URL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type quoteResponse struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
	Source    string          `json:"source"`
}

// FetchRate requests the current quote for a directional pair. A 404 from
// the provider maps to apperrors.ErrNotFound.
func (s *HTTPSource) FetchRate(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error) {
	endpoint := fmt.Sprintf("%s/rates/%s/%s", s.baseURL, url.PathEscape(fromCode), url.PathEscape(toCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error building rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching rate %s: %w", domain.PairKey(fromCode, toCode), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: provider has no quote for %s", apperrors.ErrNotFound, domain.PairKey(fromCode, toCode))
	default:
		return nil, fmt.Errorf("rate provider returned status %d for %s", resp.StatusCode, domain.PairKey(fromCode, toCode))
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("error decoding rate response: %w", err)
	}

	updatedAt := quote.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	source := quote.Source
	if source == "" {
		source = s.baseURL
	}

	return &domain.RatePair{
		FromCode:  fromCode,
		ToCode:    toCode,
		Rate:      quote.Rate,
		UpdatedAt: updatedAt,
		Source:    source,
	}, nil
}
