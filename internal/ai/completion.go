package ai

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"elasti/internal/config"
	"elasti/internal/logger"
)

// Completion backends are interchangeable chat services. All are called with
// low temperature and a fixed output cap to keep answers concise.
const (
	completionTemperature = 0.3
	completionMaxTokens   = 500

	geminiCompletionModel = "gemini-2.0-flash"
	groqCompletionModel   = "llama-3.1-8b-instant"
	openAICompletionModel = "gpt-4o-mini"

	groqBaseURL = "https://api.groq.com/openai/v1"
)

// Completer turns a prompt into a generated answer string.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMClient dispatches completions to the configured backend. Backend clients
// are constructed lazily on first use, so an unknown provider or missing key
// is a call-time error, not a startup failure.
type LLMClient struct {
	cfg     *config.Config
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter

	mu           sync.Mutex
	geminiClient *genai.Client
	openaiClient *openai.Client
	groqClient   *openai.Client
}

func NewLLMClient(cfg *config.Config) *LLMClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "CompletionAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &LLMClient{
		cfg:     cfg,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		switch c.cfg.LLMProvider {
		case "gemini":
			return c.completeWithGemini(ctx, prompt)
		case "groq":
			return c.completeWithGroq(ctx, prompt)
		case "openai":
			return c.completeWithOpenAI(ctx, prompt)
		default:
			return "", fmt.Errorf("unknown LLM provider: %s", c.cfg.LLMProvider)
		}
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (c *LLMClient) completeWithGemini(ctx context.Context, prompt string) (string, error) {
	client, err := c.gemini(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(geminiCompletionModel)
	model.SetTemperature(completionTemperature)
	model.SetMaxOutputTokens(completionMaxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	var out string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
		break
	}
	return out, nil
}

func (c *LLMClient) completeWithGroq(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	if c.groqClient == nil {
		conf := openai.DefaultConfig(c.cfg.GroqAPIKey)
		conf.BaseURL = groqBaseURL
		c.groqClient = openai.NewClientWithConfig(conf)
	}
	client := c.groqClient
	c.mu.Unlock()

	return chatCompletion(ctx, client, groqCompletionModel, prompt)
}

func (c *LLMClient) completeWithOpenAI(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	if c.openaiClient == nil {
		c.openaiClient = openai.NewClient(c.cfg.OpenAIAPIKey)
	}
	client := c.openaiClient
	c.mu.Unlock()

	return chatCompletion(ctx, client, openAICompletionModel, prompt)
}

// chatCompletion covers both OpenAI and Groq, which speaks the same API.
func chatCompletion(ctx context.Context, client *openai.Client, model, prompt string) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *LLMClient) gemini(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.geminiClient == nil {
		client, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		c.geminiClient = client
	}
	return c.geminiClient, nil
}

// Close releases any lazily constructed backend clients.
func (c *LLMClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.geminiClient != nil {
		return c.geminiClient.Close()
	}
	return nil
}
