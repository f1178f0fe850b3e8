package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kiku/internal/config"
	"github.com/hyperjump/kiku/pkg/utils"
)

// promptTemplate is the single prompt sent per query. The document text is
// truncated to the configured cap before interpolation; the query is raw.
const promptTemplate = `You are a helpful assistant. Analyze the following document and answer the user's question based ONLY on the content provided.

DOCUMENT CONTENT:
---
%s
---

USER'S QUESTION:
%s

ANSWER:
`

// Client issues generateContent requests against the Gemini REST API.
// A Client constructed without an API key is permanently unconfigured:
// Respond returns OutcomeNotConfigured without any network I/O.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a completion client from config. It never fails: a
// missing credential is logged and leaves the client unconfigured so the
// host keeps running in degraded mode.
func NewClient(cfg *config.AIConfig, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		logger.Warn("completion client not configured: missing API key")
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether the client holds a credential.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Gemini REST wire shapes (generateContent).
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback"`
	Error          *geminiError          `json:"error"`
}

// Respond answers userQuery against documentText with a single completion
// request and classifies the result. Preconditions (unconfigured client,
// empty document text) return without network I/O.
func (c *Client) Respond(ctx context.Context, documentText, userQuery string, maxTextLength int) Outcome {
	if !c.Configured() {
		return Outcome{Kind: OutcomeNotConfigured}
	}
	if documentText == "" {
		return Outcome{Kind: OutcomeNoContext}
	}

	prompt := fmt.Sprintf(promptTemplate, utils.Truncate(documentText, maxTextLength), userQuery)
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.logger.Error("completion request marshal failed", zap.Error(err))
		return Outcome{Kind: OutcomeUnknownError, Detail: err.Error()}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("completion request build failed", zap.Error(err))
		return Outcome{Kind: OutcomeUnknownError, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("completion request failed", zap.Error(err))
		return classifyError(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("completion response read failed", zap.Error(err))
		return classifyError(0, err.Error())
	}

	var gr geminiResponse
	if resp.StatusCode != http.StatusOK {
		message := string(body)
		if json.Unmarshal(body, &gr) == nil && gr.Error != nil {
			message = gr.Error.Message
		}
		c.logger.Error("completion service error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return classifyError(resp.StatusCode, message)
	}

	if err := json.Unmarshal(body, &gr); err != nil {
		c.logger.Error("completion response parse failed", zap.Error(err))
		return Outcome{Kind: OutcomeUnknownError, Detail: err.Error()}
	}
	if gr.Error != nil {
		c.logger.Error("completion service error",
			zap.Int("code", gr.Error.Code),
			zap.String("message", gr.Error.Message),
		)
		return classifyError(gr.Error.Code, gr.Error.Message)
	}

	return classifyResponse(&gr)
}

// classifyResponse maps a 200 response to Answered, Blocked, or EmptyResponse,
// in that priority order.
func classifyResponse(gr *geminiResponse) Outcome {
	if len(gr.Candidates) > 0 {
		var sb strings.Builder
		for _, part := range gr.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return Outcome{Kind: OutcomeAnswered, Text: text}
		}
	}
	if gr.PromptFeedback != nil &&
		gr.PromptFeedback.BlockReason != "" &&
		gr.PromptFeedback.BlockReason != "BLOCK_REASON_UNSPECIFIED" {
		return Outcome{Kind: OutcomeBlocked, Reason: gr.PromptFeedback.BlockReason}
	}
	return Outcome{Kind: OutcomeEmptyResponse}
}
