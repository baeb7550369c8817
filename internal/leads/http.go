package leads

import (
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes bounds the form payload read by ServeHTTP.
const maxBodyBytes = 64 << 10

// ServeHTTP adapts Handle to net/http. All methods are routed here so that
// OPTIONS and 405 responses keep the CORS headers.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			h.logger.Warn("failed to read request body", "error", err)
			WriteResponse(w, jsonResponse(http.StatusBadRequest, errorBody{Error: "Invalid request body"}))
			return
		}
	}

	resp := h.Handle(r.Context(), Request{
		Method:  r.Method,
		Headers: FlattenHeaders(r.Header),
		Body:    body,
	})
	WriteResponse(w, resp)
}

// FlattenHeaders joins repeated header values with ", " as proxies do.
func FlattenHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for k, v := range header {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

// WriteResponse copies a Response onto w.
func WriteResponse(w http.ResponseWriter, resp Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = io.WriteString(w, resp.Body)
	}
}
