package service

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/Gabo9803/IA-GENERADOR/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// ChatMessage 一条发给模型的消息
type ChatMessage struct {
	Role    string
	Content string
}

// AIClient 对语言模型补全接口的抽象，便于在测试中替换
type AIClient interface {
	CreateCompletion(ctx context.Context, messages []ChatMessage, maxTokens int, temperature float32) (string, error)
}

type openAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(cfg config.OpenAIConfig) AIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &openAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (c *openAIClient) CreateCompletion(ctx context.Context, messages []ChatMessage, maxTokens int, temperature float32) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    openaiMessages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", classifyProviderError(err)
	}

	if len(resp.Choices) == 0 {
		return "", newServiceError(KindProvider, "Error al generar el texto.", errors.New("no response from provider"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyProviderError 把提供方错误映射为明确的错误类别，
// 认证/配额/连接问题各有独立的用户提示
func classifyProviderError(err error) *ServiceError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return newServiceError(KindAuth, "Error de autenticación con la API de OpenAI.", err)
		case 429:
			return newServiceError(KindRateLimit, "Límite de cuota alcanzado. Intenta de nuevo más tarde.", err)
		}
		return newServiceError(KindProvider, "Error al generar el texto.", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return newServiceError(KindConnectivity, "No se pudo conectar con la API de OpenAI.", err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newServiceError(KindConnectivity, "No se pudo conectar con la API de OpenAI.", err)
	}

	return newServiceError(KindProvider, "Error al generar el texto.", err)
}
