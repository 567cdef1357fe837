// Package smartlead provides a minimal client for the Smartlead campaign API.
package smartlead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Smartlead API endpoint.
const DefaultBaseURL = "https://server.smartlead.ai/api/v1"

// Client is an HTTP client for the Smartlead campaign API. Every request
// carries the account API key as the api_key query parameter.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New returns a new client. If httpClient is nil, a default with 30s timeout is used.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, HTTP: httpClient}
}

// APIError is a non-2xx response from the Smartlead API.
type APIError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("smartlead api error (status %d): %s", e.StatusCode, e.Message)
}

// errorBody is the error envelope Smartlead returns on failures.
type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// do issues one request and returns the raw response body. Non-2xx statuses
// become *APIError; transport failures are returned wrapped, with no status.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	data, err := c.doRaw(ctx, method, path, query, body, "application/json")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any, accept string) ([]byte, error) {
	reqURL, err := c.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("smartlead request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp.StatusCode, data)
	}
	return data, nil
}

// buildURL composes the request URL and appends the api_key query parameter.
func (c *Client) buildURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.BaseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request url: %w", err)
	}
	q := u.Query()
	for key, vals := range query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	q.Set("api_key", c.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// apiError extracts the upstream error envelope, falling back to raw body text.
func apiError(status int, data []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Message != "" {
		return &APIError{StatusCode: status, Message: eb.Message, Details: eb.Errors}
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

// ListCampaigns fetches all campaigns in the account.
func (c *Client) ListCampaigns(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "campaigns", nil, nil)
}

// GetCampaign fetches a single campaign by its ID.
func (c *Client) GetCampaign(ctx context.Context, campaignID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "campaigns/"+url.PathEscape(campaignID), nil, nil)
}

// CreateCampaign creates a new campaign.
func (c *Client) CreateCampaign(ctx context.Context, p CreateCampaignParams) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "campaigns/create", nil, p)
}

// UpdateCampaignSchedule updates a campaign's sending schedule.
func (c *Client) UpdateCampaignSchedule(ctx context.Context, campaignID string, p ScheduleParams) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "campaigns/"+url.PathEscape(campaignID)+"/schedule", nil, p)
}

// UpdateCampaignSettings updates a campaign's general settings. Only fields
// set on p are serialized, so unset fields are left untouched upstream.
func (c *Client) UpdateCampaignSettings(ctx context.Context, campaignID string, p SettingsParams) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "campaigns/"+url.PathEscape(campaignID)+"/settings", nil, p)
}

// SaveCampaignSequence saves the email sequence for a campaign.
func (c *Client) SaveCampaignSequence(ctx context.Context, campaignID string, sequences []Sequence) (json.RawMessage, error) {
	body := map[string]any{"sequences": sequences}
	return c.do(ctx, http.MethodPost, "campaigns/"+url.PathEscape(campaignID)+"/sequences", nil, body)
}

// PatchCampaignStatus changes a campaign's status to PAUSED, STOPPED, or START.
func (c *Client) PatchCampaignStatus(ctx context.Context, campaignID, status string) (json.RawMessage, error) {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPost, "campaigns/"+url.PathEscape(campaignID)+"/status", nil, body)
}

// CampaignAnalytics fetches campaign analytics for a date range (YYYY-MM-DD).
func (c *Client) CampaignAnalytics(ctx context.Context, campaignID, startDate, endDate string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	return c.do(ctx, http.MethodGet, "campaigns/"+url.PathEscape(campaignID)+"/analytics-by-date", q, nil)
}

// CampaignSequence fetches a campaign's sequence data.
func (c *Client) CampaignSequence(ctx context.Context, campaignID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "campaigns/"+url.PathEscape(campaignID)+"/sequences", nil, nil)
}

// CampaignSequenceAnalytics fetches per-step engagement metrics for a
// campaign's sequence. timeZone is optional.
func (c *Client) CampaignSequenceAnalytics(ctx context.Context, campaignID, startDate, endDate, timeZone string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	if timeZone != "" {
		q.Set("time_zone", timeZone)
	}
	return c.do(ctx, http.MethodGet, "campaigns/"+url.PathEscape(campaignID)+"/sequence-analytics", q, nil)
}

// CampaignsByLead fetches all campaigns a lead belongs to.
func (c *Client) CampaignsByLead(ctx context.Context, leadID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "leads/"+url.PathEscape(leadID)+"/campaigns", nil, nil)
}

// ExportCampaignLeads downloads the campaign's leads as CSV.
func (c *Client) ExportCampaignLeads(ctx context.Context, campaignID string) (string, error) {
	data, err := c.doRaw(ctx, http.MethodGet, "campaigns/"+url.PathEscape(campaignID)+"/leads-export", nil, nil, "text/plain")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
