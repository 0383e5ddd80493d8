package formbrickssdk

import (
	"context"
	"net/http"
)

// BuildInfoResponse contains the version of the running server.
type BuildInfoResponse struct {
	// ExternalURL references the source of the running build.
	ExternalURL string `json:"external_url"`
	// Version is a semantic version.
	Version string `json:"version"`
}

// BuildInfo returns the version of the server the client is pointed at.
func (c *Client) BuildInfo(ctx context.Context) (BuildInfoResponse, error) {
	res, err := c.Request(ctx, http.MethodGet, "/api/v2/buildinfo", nil)
	if err != nil {
		return BuildInfoResponse{}, err
	}
	if res.StatusCode != http.StatusOK {
		return BuildInfoResponse{}, readBodyAsError(res)
	}
	var info BuildInfoResponse
	return info, readJSON(res, &info)
}
