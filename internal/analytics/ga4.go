package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const ga4BaseURL = "https://analyticsdata.googleapis.com/v1beta"

// GA4Client reads from the Google Analytics Data API. The call is an opaque
// pass-through: two report shapes, no paging, no retries. Errors are
// surfaced to the Service, which falls back to mock data.
type GA4Client struct {
	propertyID  string
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

func NewGA4Client(propertyID, accessToken string) *GA4Client {
	return &GA4Client{
		propertyID:  propertyID,
		accessToken: accessToken,
		baseURL:     ga4BaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type ga4Response struct {
	Rows []struct {
		DimensionValues []struct {
			Value string `json:"value"`
		} `json:"dimensionValues"`
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
}

func (c *GA4Client) Realtime(ctx context.Context) (map[string]any, error) {
	body := map[string]any{
		"metrics": []map[string]string{
			{"name": "activeUsers"},
			{"name": "screenPageViews"},
		},
	}
	resp, err := c.run(ctx, "runRealtimeReport", body)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"source":      "ga4",
		"activeUsers": 0,
		"pageViews":   0,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	if len(resp.Rows) > 0 && len(resp.Rows[0].MetricValues) >= 2 {
		payload["activeUsers"] = metricInt(resp.Rows[0].MetricValues[0].Value)
		payload["pageViews"] = metricInt(resp.Rows[0].MetricValues[1].Value)
	}
	return payload, nil
}

func (c *GA4Client) Summary(ctx context.Context) (map[string]any, error) {
	body := map[string]any{
		"dateRanges": []map[string]string{
			{"startDate": "28daysAgo", "endDate": "today"},
		},
		"metrics": []map[string]string{
			{"name": "totalUsers"},
			{"name": "sessions"},
			{"name": "screenPageViews"},
			{"name": "bounceRate"},
			{"name": "averageSessionDuration"},
		},
	}
	resp, err := c.run(ctx, "runReport", body)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"source":    "ga4",
		"period":    "28d",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if len(resp.Rows) > 0 && len(resp.Rows[0].MetricValues) >= 5 {
		values := resp.Rows[0].MetricValues
		payload["totalUsers"] = metricInt(values[0].Value)
		payload["sessions"] = metricInt(values[1].Value)
		payload["pageViews"] = metricInt(values[2].Value)
		payload["bounceRate"] = metricFloat(values[3].Value)
		payload["avgSessionDuration"] = metricFloat(values[4].Value)
	}
	return payload, nil
}

func (c *GA4Client) run(ctx context.Context, report string, body map[string]any) (*ga4Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", report, err)
	}

	url := fmt.Sprintf("%s/properties/%s:%s", c.baseURL, c.propertyID, report)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", report, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", report, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: upstream status %d", report, resp.StatusCode)
	}

	var parsed ga4Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", report, err)
	}
	return &parsed, nil
}

func metricInt(raw string) int {
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func metricFloat(raw string) float64 {
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return parsed
}
