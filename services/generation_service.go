package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"pygamecrafter-server/middleware"
	"pygamecrafter-server/models"
)

const (
	// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint root.
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

	groqModel           = "llama-3.1-8b-instant"
	maxCompletionTokens = 2000
	generationTimeout   = 40 * time.Second

	codeTag        = "CODE"
	explanationTag = "EXPLANATION"
)

// GenerationErrorKind classifies why a generation call failed.
type GenerationErrorKind int

const (
	ErrMissingCredential GenerationErrorKind = iota
	ErrMalformedCredential
	ErrUnauthorized
	ErrUpstream
	ErrTransport
	ErrEmptyContent
	ErrMissingCode
)

// GenerationError is the classified failure of one improve call. Status holds
// the backend's HTTP status for ErrUpstream so the handler can pass it
// through unchanged.
type GenerationError struct {
	Kind    GenerationErrorKind
	Status  int
	Message string
}

func (e *GenerationError) Error() string { return e.Message }

// GenerationService drives the improve flow: prompt construction, the Groq
// chat-completion call, section extraction, and the server-side syntax check.
type GenerationService struct {
	creds     CredentialProvider
	prompts   *PromptBuilder
	validator *SyntaxValidator
	baseURL   string
	model     string
	client    *http.Client
}

func NewGenerationService(creds CredentialProvider, validator *SyntaxValidator, baseURL string) *GenerationService {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	return &GenerationService{
		creds:     creds,
		prompts:   &PromptBuilder{},
		validator: validator,
		baseURL:   baseURL,
		model:     groqModel,
		client:    middleware.GetCustomXRayHTTPClient(&http.Client{Timeout: generationTimeout}),
	}
}

// Improve runs the full generation flow for one request.
func (s *GenerationService) Improve(ctx context.Context, req *models.ImproveRequest) (*models.ImproveResponse, error) {
	promptText := s.prompts.Build(req.Code, req.SelectedCode, req.Prompt)

	content, err := s.generate(ctx, promptText)
	if err != nil {
		return nil, err
	}

	preview := content
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}
	log.Printf("Raw Groq response (first 500 chars): %s", preview)

	code, ok := ExtractSection(content, codeTag)
	if !ok || code == "" {
		return nil, &GenerationError{
			Kind: ErrMissingCode,
			Message: "PyGameCrafter could not find a <CODE>...</CODE> block in the model response.\n" +
				"Try a simpler, more focused prompt about your Python/Pygame game.",
		}
	}

	explanation, ok := ExtractSection(content, explanationTag)
	if !ok || explanation == "" {
		explanation = "No explanation provided by the model. " +
			"PyGameCrafter updated or generated the code based on your prompt."
	}

	// The syntax check warns but never blocks: the user still gets the code.
	if issue := s.validator.Validate(code); issue != nil {
		explanation += "\n\n[Server syntax check warning]\n" + issue.String()
	}

	return &models.ImproveResponse{ModifiedCode: code, Explanation: explanation}, nil
}

// generate performs the single-turn chat completion and returns the raw reply
// text. The client is rebuilt per call because the credential can appear via
// the provider's lazy reload after startup.
func (s *GenerationService) generate(ctx context.Context, promptText string) (string, error) {
	key, err := s.creds.Key()
	if err != nil {
		return "", err
	}

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = s.baseURL
	cfg.HTTPClient = s.client
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: maxCompletionTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: promptText},
		},
	})
	if err != nil {
		return "", classifyBackendError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Kind: ErrEmptyContent, Message: "Model returned empty content."}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &GenerationError{Kind: ErrEmptyContent, Message: "Model returned empty content."}
	}
	return content, nil
}

// classifyBackendError maps a go-openai error to a GenerationError. A 401 is
// called out separately; other non-2xx statuses pass through with the
// backend's status and detail text; anything without a status is a transport
// failure.
func classifyBackendError(err error) *GenerationError {
	status := 0
	detail := err.Error()

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
		detail = apiErr.Message
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized:
		return &GenerationError{
			Kind:   ErrUnauthorized,
			Status: http.StatusUnauthorized,
			Message: "Groq API returned 401 Unauthorized.\n" +
				"Check that your GROQ_API_KEY is correct, active, " +
				"and really a Groq key (not an OpenAI key).",
		}
	case status != 0:
		return &GenerationError{
			Kind:    ErrUpstream,
			Status:  status,
			Message: fmt.Sprintf("Groq API error %d: %s", status, detail),
		}
	default:
		return &GenerationError{
			Kind: ErrTransport,
			Message: "PyGameCrafter had trouble talking to the Groq API.\n" +
				fmt.Sprintf("Details: %s", detail),
		}
	}
}
