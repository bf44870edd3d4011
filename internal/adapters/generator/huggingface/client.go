package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
)

const (
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 15 * time.Second
)

// Parameters are the sampling settings sent with every request.
type Parameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	DoSample          bool    `json:"do_sample"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

func DefaultParameters() Parameters {
	return Parameters{
		MaxNewTokens:      80,
		Temperature:       0.9,
		DoSample:          true,
		TopP:              0.9,
		RepetitionPenalty: 1.2,
	}
}

// Client calls a hosted text-generation inference endpoint.
type Client struct {
	URL            string
	Token          string
	Parameters     Parameters
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.Generator = Client{}

type inferenceRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type inferenceResult struct {
	GeneratedText string `json:"generated_text"`
}

type inferenceError struct {
	Error string `json:"error"`
}

func (c Client) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(inferenceRequest{Inputs: req.Prompt, Parameters: c.Parameters})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: request inference: %w", domain.ErrExternalService, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read inference response: %w", domain.ErrExternalService, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: inference %s", domain.ErrExternalService, describeFailure(resp.StatusCode, raw))
	}

	var results []inferenceResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return "", fmt.Errorf("%w: decode inference response: %w", domain.ErrExternalService, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: inference returned no results", domain.ErrExternalService)
	}

	return results[0].GeneratedText, nil
}

func (c Client) endpoint() (string, error) {
	if c.URL == "" {
		return "", errors.New("generator url is required")
	}

	parsed, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("parse generator url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("generator url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("generator url host is required")
	}

	return parsed.String(), nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func describeFailure(statusCode int, raw []byte) string {
	var payload inferenceError
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		return fmt.Sprintf("status %d", statusCode)
	}
	return fmt.Sprintf("status %d: %s", statusCode, payload.Error)
}
