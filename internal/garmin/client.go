package garmin

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// BaseURL is the Garmin Connect API host
const BaseURL = "https://connectapi.garmin.com"

// activityPageSize is the page size used when listing activities
const activityPageSize = 100

// Client is a Garmin Connect API client
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
	baseURL     string
}

// NewClient creates a new Garmin Connect API client
func NewClient(tokenSource oauth2.TokenSource, minInterval time.Duration) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(minInterval),
		baseURL:     BaseURL,
	}
}

// GetActivitiesByDate fetches all activities within [start, end], newest
// first, paging through the activity list. activityType filters by Garmin
// type key ("cycling", "running"); empty means all types.
func (c *Client) GetActivitiesByDate(ctx context.Context, start, end time.Time, activityType string) ([]ActivitySummary, error) {
	var all []ActivitySummary
	offset := 0

	for {
		page, err := c.getActivityPage(ctx, start, end, activityType, offset)
		if err != nil {
			return all, fmt.Errorf("fetching activities at offset %d: %w", offset, err)
		}

		if len(page) == 0 {
			break
		}

		all = append(all, page...)

		if len(page) < activityPageSize {
			break // Last page
		}

		offset += activityPageSize
	}

	return all, nil
}

func (c *Client) getActivityPage(ctx context.Context, start, end time.Time, activityType string, offset int) ([]ActivitySummary, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("startDate", start.Format("2006-01-02"))
	params.Set("endDate", end.Format("2006-01-02"))
	params.Set("start", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(activityPageSize))
	if activityType != "" {
		params.Set("activityType", activityType)
	}

	body, err := c.get(ctx, "/activitylist-service/activities/search/activities", params)
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("unexpected activity list payload: %s", truncate(body, 200))
	}

	var activities []ActivitySummary
	result.ForEach(func(_, item gjson.Result) bool {
		activities = append(activities, parseActivitySummary(item))
		return true
	})

	return activities, nil
}

// GetActivity fetches the summary for a single activity
func (c *Client) GetActivity(ctx context.Context, activityID int64) (*ActivitySummary, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/activity-service/activity/%d", activityID)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	// The single-activity payload nests the listing fields under
	// summaryDTO while the ids and names stay at the top level.
	result := gjson.ParseBytes(body)
	summary := parseActivitySummary(result)
	if summary.ActivityID == 0 {
		summary.ActivityID = result.Get("activityId").Int()
	}

	return &summary, nil
}

// DownloadActivityFIT downloads the original FIT recording for an
// activity. Garmin wraps the file in a ZIP archive; the .fit entry is
// extracted in memory and returned.
func (c *Client) DownloadActivityFIT(ctx context.Context, activityID int64) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/download-service/files/activity/%d", activityID)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if !isZIP(body) {
		// Some accounts serve the FIT file directly.
		return body, nil
	}

	return extractFIT(body)
}

// RateLimitStatus returns the remaining request budget
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, truncate(body, 500))
	}

	return body, nil
}

func isZIP(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte("PK\x03\x04"))
}

// extractFIT pulls the first .fit entry out of a ZIP archive
func extractFIT(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening download archive: %w", err)
	}

	for _, file := range zr.File {
		if len(file.Name) < 4 || file.Name[len(file.Name)-4:] != ".fit" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in archive: %w", file.Name, err)
		}
		defer rc.Close()

		fitData, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %s from archive: %w", file.Name, err)
		}
		return fitData, nil
	}

	return nil, fmt.Errorf("download archive contains no .fit file")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
