package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/socnav/socnav/internal/api/response"
	"github.com/socnav/socnav/internal/assistant"
)

// maxProxyBodySize caps the request body forwarded to the assistant.
const maxProxyBodySize = 64 * 1024

// AssistantHandler proxies chat completion requests to the assistant
// backend so the browser never sees the API key.
type AssistantHandler struct {
	client *assistant.Client
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(client *assistant.Client) *AssistantHandler {
	return &AssistantHandler{client: client}
}

// ChatCompletions handles POST /api/gigachat/v1/chat/completions.
// The body is forwarded verbatim; the upstream status and body are
// returned as-is.
func (h *AssistantHandler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBodySize))
	if err != nil {
		response.BadRequest(w, r, "failed to read request body", nil)
		return
	}

	status, respBody, err := h.client.Proxy(r.Context(), body)
	if err != nil {
		if errors.Is(err, assistant.ErrDisabled) {
			response.ServiceUnavailable(w, r, "assistant is not configured")
			return
		}
		response.ServiceUnavailable(w, r, "assistant is unreachable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(respBody)
}
