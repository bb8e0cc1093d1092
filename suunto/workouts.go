package suunto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// PageSize is the number of workouts requested per listing page.
const PageSize = 30

// Workout is a single record of the workout listing.
type Workout struct {
	ActivityID    FlexString `json:"activityId"`
	WorkoutKey    string     `json:"workoutKey"`
	TotalDistance float64    `json:"totalDistance"` // meters
	TotalTime     float64    `json:"totalTime"`     // seconds
	StartTime     int64      `json:"startTime"`     // milliseconds since epoch
}

// WorkoutQuery selects one page of workouts.
type WorkoutQuery struct {
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// workoutsResponse is the listing envelope.
type workoutsResponse struct {
	Payload []Workout `json:"payload"`
}

// FlexString decodes a JSON string or number into a string. Suunto reports
// activityId as a number while other fields of the same kind are strings.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// ListWorkouts fetches a single page of workouts. Times are sent as
// milliseconds since epoch. Workouts are selected by start time, not by
// modification time.
func (c *Client) ListWorkouts(ctx context.Context, accessToken string, q WorkoutQuery) ([]Workout, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = PageSize
	}

	params := url.Values{}
	params.Set("until", strconv.FormatInt(q.Until.UnixMilli(), 10))
	params.Set("since", strconv.FormatInt(q.Since.UnixMilli(), 10))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("filter-by-modification-time", "false")

	req, err := c.newAPIRequest(ctx, "/v2/workouts?"+params.Encode(), accessToken)
	if err != nil {
		return nil, err
	}

	_, body, err := c.doRequest(req)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	var wr workoutsResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("list workouts: %w: %v", ErrParse, err)
	}

	c.logger.Debug("workouts page", "offset", q.Offset, "count", len(wr.Payload))
	return wr.Payload, nil
}
