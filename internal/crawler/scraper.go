package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"companyexport/internal/models"
	"companyexport/pkg/utils"
)

// SearchPath is the endpoint queried for company records.
const SearchPath = "/IT-search"

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PageQuery selects one page of search results.
type PageQuery struct {
	ClassificationCode string
	RegionCode         string
	Limit              int
	Skip               int
}

// Scraper issues single search requests and decodes their batches.
type Scraper struct {
	client  HTTPDoer
	limiter *rate.Limiter
	headers *utils.HTTPHelper
	baseURL string
	token   string
}

// NewScraper creates a scraper for cfg. A zero RequestInterval disables pacing.
func NewScraper(cfg Config) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}

	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		headers: utils.NewHTTPHelper(cfg.UserAgent),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
	}
}

// SetHTTPClient replaces the HTTP client.
func (s *Scraper) SetHTTPClient(client HTTPDoer) {
	s.client = client
}

// FetchPage requests one page and returns its records. Elements of the
// result list that are not objects are dropped.
func (s *Scraper) FetchPage(ctx context.Context, q PageQuery) ([]models.RawRecord, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Message: "request cancelled", Err: err}
		}
	}

	req, err := s.newRequest(ctx, q)
	if err != nil {
		return nil, &TransportError{Message: "failed to create request", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: "failed to read response body", Status: resp.StatusCode, Err: err}
	}

	payload, err := decodePayload(body)
	if err != nil {
		return nil, &TransportError{Message: "response was not well-formed", Status: resp.StatusCode, Err: err}
	}

	obj, isObject := payload.(map[string]any)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg string
		if isObject {
			msg, _ = obj["message"].(string)
		} else {
			msg = strings.TrimSpace(string(body))
		}

		if msg == "" {
			msg = fmt.Sprintf("HTTP error %d", resp.StatusCode)
		}

		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if !isObject {
		return nil, &TransportError{Message: "unexpected response shape", Status: resp.StatusCode}
	}

	if !truthy(obj["success"]) {
		msg, _ := obj["message"].(string)
		if msg == "" {
			msg = "request was not successful"
		}

		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	return extractBatch(obj), nil
}

func (s *Scraper) newRequest(ctx context.Context, q PageQuery) (*http.Request, error) {
	u, err := url.Parse(s.baseURL + SearchPath)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("atecoCode", q.ClassificationCode)
	params.Set("province", q.RegionCode)
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("skip", strconv.Itoa(q.Skip))
	params.Set("dataEnrichment", "advanced")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header = s.headers.BuildHeaders(map[string]string{
		"Authorization": "Bearer " + s.token,
	})

	return req, nil
}

func decodePayload(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	return payload, nil
}

// extractBatch returns the record list of a successful response. Some
// responses wrap the list in a second "data" object.
func extractBatch(payload map[string]any) []models.RawRecord {
	data := payload["data"]
	if envelope, ok := data.(map[string]any); ok {
		if inner, ok := envelope["data"]; ok {
			data = inner
		}
	}

	items, ok := data.([]any)
	if !ok {
		return nil
	}

	batch := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		if record, ok := models.AsRecord(item); ok {
			batch = append(batch, record)
		}
	}

	return batch
}

// truthy mirrors the loose success flags the API has been seen to send.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
