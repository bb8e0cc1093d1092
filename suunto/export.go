package suunto

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// errorBodyLimit caps how much of an error response is read for its message.
const errorBodyLimit = 64 << 10

// ExportFit starts downloading the FIT export of a workout. The returned
// body is the untouched export and must be closed by the caller.
func (c *Client) ExportFit(ctx context.Context, accessToken, workoutKey string) (io.ReadCloser, error) {
	req, err := c.newAPIRequest(ctx, "/v2/workout/exportFit/"+url.PathEscape(workoutKey), accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("export workout %s: %w", workoutKey, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		c.logResponse(ctx, resp, body)
		return nil, fmt.Errorf("export workout %s: %w", workoutKey,
			newAPIError(resp.StatusCode, resp.Header.Get("Content-Type"), body))
	}

	c.logger.Debug("export started", "workout_key", workoutKey, "content_length", resp.ContentLength)
	return resp.Body, nil
}
