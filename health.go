// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"context"
	"net/http"
	"strconv"
)

// healthDistributionKey is the controller's own spelling of the field
const healthDistributionKey = "healthDistirubution"

// HealthCategory is one bar of the network health distribution
type HealthCategory struct {
	// Category name, e.g. "Access", "Core", "Router"
	Category string

	// TotalCount is the number of devices in the category
	TotalCount int64

	// HealthScore is the percentage of healthy devices
	HealthScore int64
}

// NetworkHealth is the parsed network health response
type NetworkHealth struct {
	// Timestamp requested, in milliseconds since the Unix epoch
	Timestamp int64

	// HealthScore is the overall score, -1 if the controller did not report one
	HealthScore int64

	Categories []HealthCategory
}

// GetNetworkHealth retrieves the network health distribution at the current time
//
// Example:
//
//	health, err := client.GetNetworkHealth(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, cat := range health.Categories {
//	    fmt.Printf("%-10s %3d%% (%d devices)\n", cat.Category, cat.HealthScore, cat.TotalCount)
//	}
func (c *Client) GetNetworkHealth(ctx context.Context, mods ...func(*Req)) (NetworkHealth, error) {
	ts := c.now().UnixMilli()
	mods = append([]func(*Req){Query("timestamp", strconv.FormatInt(ts, 10))}, mods...)

	res, err := c.Get(ctx, NetworkHealthPath, mods...)
	if err != nil {
		return NetworkHealth{}, err
	}

	dist := res.Get(healthDistributionKey)
	if !dist.IsArray() {
		return NetworkHealth{}, &RemoteRequestError{
			Operation:   "GetNetworkHealth",
			Method:      http.MethodGet,
			URL:         c.BaseURL + NetworkHealthPath,
			StatusCode:  res.StatusCode,
			Status:      http.StatusText(res.StatusCode),
			Message:     "unexpected response envelope: " + healthDistributionKey + " is not an array",
			InternalMsg: truncate(res.Body, MaxErrorBodyLength),
		}
	}

	health := NetworkHealth{Timestamp: ts, HealthScore: -1}
	if score := res.Get("response.0.healthScore"); score.Exists() {
		health.HealthScore = score.Int()
	}
	for _, item := range dist.Array() {
		health.Categories = append(health.Categories, HealthCategory{
			Category:    item.Get("category").String(),
			TotalCount:  item.Get("totalCount").Int(),
			HealthScore: item.Get("healthScore").Int(),
		})
	}

	c.logger.Info(ctx, "network health retrieved",
		"categories", len(health.Categories),
		"health_score", health.HealthScore)

	return health, nil
}

// JSON renders the health data as a JSON report for host on date
func (h NetworkHealth) JSON(host, date string) (string, error) {
	body := Body{}.
		Set("host", host).
		Set("date", date).
		Set("timestamp", h.Timestamp).
		Set("health_score", h.HealthScore).
		Set("categories", []any{})

	for _, cat := range h.Categories {
		body = body.Append("categories", map[string]any{
			"category":     cat.Category,
			"total_count":  cat.TotalCount,
			"health_score": cat.HealthScore,
		})
	}

	return body.String()
}
