package controller

import (
	"errors"
	"net/http"
)

const viewerIdHeader = "X-Viewer-Id"

// getViewerId reads the viewer identity from the header, falling back to the
// query string for websocket clients that cannot set headers.
func (c *controller) getViewerId(r *http.Request) (string, error) {
	viewerId := r.Header.Get(viewerIdHeader)
	if viewerId == "" {
		viewerId = r.URL.Query().Get("viewer-id")
	}
	if viewerId == "" {
		return "", errors.New("viewer id was not provided")
	}

	return viewerId, nil
}
