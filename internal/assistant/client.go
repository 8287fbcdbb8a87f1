// Package assistant generates short Russian explanations for composed
// routes via a GigaChat-compatible chat-completions API. The helper is
// strictly best-effort; a route is delivered whether or not it speaks.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/geo"
	"github.com/socnav/socnav/internal/provider/resilience"
)

const (
	// ProviderName identifies the assistant backend.
	ProviderName = "gigachat"

	// DefaultBaseURL is the hosted foundation-models endpoint.
	DefaultBaseURL = "https://foundation-models.api.cloud.ru"

	// DefaultModel is the chat model used for route comments.
	DefaultModel = "ai-sage/GigaChat3-10B-A1.8B"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	completionsPath = "/v1/chat/completions"

	maxCommentTokens = 400
	temperature      = 0.4
	topP             = 0.95
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("assistant is disabled: no API key")

// fallbackComment is shown when the model answers with empty content.
const fallbackComment = "Я подобрал для вас ближайший подходящий объект с учётом ваших особенностей здоровья."

var flagLabels = map[catalog.Flag]string{
	catalog.FlagVision:     "нарушения зрения",
	catalog.FlagHearing:    "нарушения слуха",
	catalog.FlagWheelchair: "передвигается на кресле-коляске",
	catalog.FlagMobility:   "нарушения опорно-двигательного аппарата",
	catalog.FlagMental:     "умственные нарушения",
}

const systemPrompt = `Ты — краткий русскоязычный ИИ-помощник для навигации по социальной инфраструктуре.
Маршрут до объекта уже автоматически подобран по геоданным и доступности, выбирать объект не нужно.
Твоя задача — вежливо и очень коротко (1–2 предложения) объяснить пользователю, почему выбранный объект ему подходит.
Не упоминай никакой технической информации (координаты, ID, формулы, API и т.п.).
Не пиши больше двух предложений.`

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the assistant client.
type ClientConfig struct {
	// APIKey authorizes requests. Empty disables the assistant.
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// Model overrides the default chat model (optional).
	Model string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client talks to the chat-completions API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new assistant client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// CommentParams describes a composed route for the helper.
type CommentParams struct {
	Query       string
	Origin      geo.Point
	Profile     catalog.Profile
	Categories  []catalog.Category
	Context     []catalog.Destination
	Destination catalog.Destination
	DistanceKm  float64
}

// RouteComment asks the model why the chosen destination fits. Returns
// ErrDisabled without an API key; any transport or model error is
// returned for the caller to swallow.
func (c *Client) RouteComment(ctx context.Context, p CommentParams) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	reqBody := chatRequest{
		Model:       c.model,
		MaxTokens:   maxCommentTokens,
		Temperature: temperature,
		TopP:        topP,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(p)},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return fallbackComment, nil
	}
	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return fallbackComment, nil
	}
	return content, nil
}

// Proxy forwards a raw chat-completions request body and returns the
// upstream status and body verbatim.
func (c *Client) Proxy(ctx context.Context, body []byte) (int, []byte, error) {
	if !c.Enabled() {
		return 0, nil, ErrDisabled
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func buildUserPrompt(p CommentParams) string {
	var b strings.Builder

	query := p.Query
	if query == "" {
		query = "к ближайшему подходящему объекту"
	}
	fmt.Fprintf(&b, "Запрос пользователя: %q.\n\n", query)
	fmt.Fprintf(&b, "Текущее местоположение (приблизительно): [%.4f° широты, %.4f° долготы].\n", p.Origin.Lat, p.Origin.Lon)
	fmt.Fprintf(&b, "Особенности здоровья: %s.\n", profileText(p.Profile))
	fmt.Fprintf(&b, "Выбранные категории объектов: %s.\n\n", categoriesText(p.Categories))

	if len(p.Context) > 0 {
		b.WriteString("Список объектов (для контекста):\n")
		for _, d := range p.Context {
			fmt.Fprintf(&b, "- %s (%s), адрес: %s. Доступность: %s.\n",
				d.Name, d.Category, d.Address, accessibilityText(d.Accessibility))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Автоматически выбран объект:\n")
	fmt.Fprintf(&b, "- Название: %s\n", p.Destination.Name)
	fmt.Fprintf(&b, "- Адрес: %s\n", p.Destination.Address)
	fmt.Fprintf(&b, "- Категория: %s\n", p.Destination.Category)
	fmt.Fprintf(&b, "- Ориентировочное расстояние: %.1f км\n", p.DistanceKm)
	fmt.Fprintf(&b, "- Доступность по профилю пользователя: %s\n\n", accessibilityText(p.Destination.Accessibility))
	b.WriteString("Сформулируй для пользователя очень короткое пояснение, почему этот объект ему подойдёт, с учётом особенностей здоровья и того, что он находится недалеко.")

	return b.String()
}

func profileText(p catalog.Profile) string {
	if p.Empty() {
		return "особенности здоровья не указаны"
	}
	var labels []string
	for _, f := range catalog.Flags {
		if p[f] {
			labels = append(labels, flagLabels[f])
		}
	}
	return strings.Join(labels, ", ")
}

func categoriesText(categories []catalog.Category) string {
	if len(categories) == 0 {
		return "категории объектов не выбраны"
	}
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func accessibilityText(a catalog.Accessibility) string {
	yesNo := func(v bool) string {
		if v {
			return "да"
		}
		return "нет"
	}
	return fmt.Sprintf("зрение=%s, слух=%s, коляска=%s, опорно-двигательный аппарат=%s, умственные нарушения=%s",
		yesNo(a.Vision), yesNo(a.Hearing), yesNo(a.Wheelchair), yesNo(a.Mobility), yesNo(a.Mental))
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
