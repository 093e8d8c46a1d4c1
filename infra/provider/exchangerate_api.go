package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/provider"
	"github.com/shopspring/decimal"
)

// ErrMissingAPIKey is returned when no exchangerate-api.com key is configured.
var ErrMissingAPIKey = errors.New("exchange rate API key is not configured")

// ExchangeRateAPIProvider implements ExchangeRateProvider for the
// exchangerate-api.com v6 API.
type ExchangeRateAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ExchangeRateAPIResponseV6 is the v6 "latest" response.
// See https://www.exchangerate-api.com/docs/standard-requests
type ExchangeRateAPIResponseV6 struct {
	Result             string                     `json:"result"`
	TimeLastUpdateUnix int64                      `json:"time_last_update_unix"`
	BaseCode           string                     `json:"base_code"`
	ConversionRates    map[string]decimal.Decimal `json:"conversion_rates"`
	ErrorType          string                     `json:"error-type,omitempty"`
}

// NewExchangeRateAPIProvider creates a provider from config. baseURL should
// look like https://v6.exchangerate-api.com/v6.
func NewExchangeRateAPIProvider(
	cfg *config.ExchangeRate,
	logger *slog.Logger,
) *ExchangeRateAPIProvider {
	return &ExchangeRateAPIProvider{
		apiKey:     cfg.ApiKey,
		baseURL:    strings.TrimRight(cfg.ApiUrl, "/"),
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

func (p *ExchangeRateAPIProvider) Name() string {
	return "exchangerate-api"
}

// GetRate fetches the latest rates for from and picks to.
func (p *ExchangeRateAPIProvider) GetRate(
	ctx context.Context,
	from, to string,
) (*domain.ExchangeRate, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	url := fmt.Sprintf("%s/%s/latest/%s", p.baseURL, p.apiKey, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp ExchangeRateAPIResponseV6
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Result != "success" {
		return nil, fmt.Errorf("API returned result=%s error-type=%s", apiResp.Result, apiResp.ErrorType)
	}

	rate, ok := apiResp.ConversionRates[to]
	if !ok {
		return nil, fmt.Errorf("currency %s not found in response", to)
	}

	updated := time.Now().UTC()
	if apiResp.TimeLastUpdateUnix > 0 {
		updated = time.Unix(apiResp.TimeLastUpdateUnix, 0).UTC()
	}
	p.logger.Debug("Fetched exchange rate", "from", from, "to", to, "rate", rate.String())
	return &domain.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Source:       p.Name(),
		LastUpdated:  updated,
	}, nil
}

var _ provider.ExchangeRateProvider = (*ExchangeRateAPIProvider)(nil)
