package api

import (
	"net/http"
	"strconv"
	"strings"
)

// representation is the response representation chosen for a request.
type representation int

const (
	// reprJSON is the default and fallback representation.
	reprJSON representation = iota
	// reprHTML is chosen when the Accept header prefers text/html.
	reprHTML
	// reprNone means the client accepts neither JSON nor HTML.
	reprNone
)

// negotiate picks the response representation from the Accept header.
// JSON wins ties; a client accepting neither JSON nor HTML gets reprNone
// and the caller responds 406.
func negotiate(r *http.Request) representation {
	accept := strings.TrimSpace(r.Header.Get("Accept"))
	if accept == "" {
		return reprJSON
	}

	var qHTML, qJSON float64
	for _, part := range strings.Split(accept, ",") {
		mediaType, q := parseMediaRange(part)
		switch mediaType {
		case "text/html", "text/*":
			qHTML = max(qHTML, q)
		case "application/json", "application/*", "*/*":
			qJSON = max(qJSON, q)
		}
	}

	switch {
	case qHTML > qJSON:
		return reprHTML
	case qJSON > 0:
		return reprJSON
	default:
		return reprNone
	}
}

// parseMediaRange splits one Accept member into its media type and quality.
// Malformed q parameters fall back to 1, matching permissive servers.
func parseMediaRange(part string) (string, float64) {
	segments := strings.Split(part, ";")
	mediaType := strings.ToLower(strings.TrimSpace(segments[0]))
	q := 1.0
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if !strings.HasPrefix(seg, "q=") {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimPrefix(seg, "q="), 64)
		if err == nil && parsed >= 0 && parsed <= 1 {
			q = parsed
		}
	}
	return mediaType, q
}
