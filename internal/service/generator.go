package service

import (
	"context"

	"github.com/Gabo9803/IA-GENERADOR/internal/cache"
	"github.com/Gabo9803/IA-GENERADOR/internal/config"
	"github.com/Gabo9803/IA-GENERADOR/internal/model"
	"github.com/Gabo9803/IA-GENERADOR/internal/utils"
	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

// 重试时附加到用户消息末尾的纠正指令
const retryClause = "\nPor favor, asegúrate de incluir al menos un encabezado (#, ##) en el contenido y seguir la estructura solicitada según el nivel."

// DocumentService 负责文档生成的完整流程：提示组装、缓存、模型调用、结果校验
type DocumentService struct {
	cfg       *config.Config
	ai        AIClient
	responses *cache.Cache[string]
	contexts  *cache.ContextStore
}

func NewDocumentService(cfg *config.Config, ai AIClient, responses *cache.Cache[string], contexts *cache.ContextStore) *DocumentService {
	return &DocumentService{
		cfg:       cfg,
		ai:        ai,
		responses: responses,
		contexts:  contexts,
	}
}

// Generate 生成文档或对话回复。返回生成文本以及该请求是否为闲聊
//
// 请求必须已经过 NormalizeRequest 和 ValidateRequest 处理。
// 缓存命中时直接返回缓存内容，不调用模型、不校验、不更新会话上下文。
func (s *DocumentService) Generate(ctx context.Context, req *model.GenerateRequest, history []model.HistoryEntry, sessionID string) (string, bool, error) {
	conversational := IsConversationalPrompt(req.Prompt)

	historySummary := ""
	contextSummary := ""
	if !conversational {
		historySummary = utils.SummarizeHistory(history)
		if prior, ok := s.contexts.Get(sessionID); ok && prior.LastDocument != "" {
			contextSummary = buildContextSummary(prior)
		}
	}

	systemMessage := buildSystemMessage(req, historySummary, contextSummary, conversational)

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: model.RoleSystem, Content: systemMessage})
	for _, entry := range history {
		messages = append(messages, ChatMessage{Role: entry.Role, Content: entry.Content})
	}
	messages = append(messages, ChatMessage{Role: model.RoleUser, Content: req.Prompt})

	cacheKey := utils.GenerateCacheKey(req.Prompt, req.DocType, req.Template, req.Fields, req.Level, history)
	if cached, ok := s.responses.Get(cacheKey); ok {
		logger.Infof("cache hit for session %s, skipping model call", sessionID)
		return cached, conversational, nil
	}

	maxTokens := conversationalMaxTokens
	if !conversational {
		maxTokens = levelMaxTokens[req.Level]
	}

	text, err := s.complete(ctx, messages, maxTokens)
	if err != nil {
		return "", conversational, err
	}

	valid, reason := ValidateGeneratedText(text, req.Level, conversational)
	if !valid && !conversational {
		logger.Warnf("generated text rejected (%s), retrying with corrective clause", reason)
		messages[len(messages)-1].Content += retryClause

		text, err = s.complete(ctx, messages, maxTokens)
		if err != nil {
			return "", conversational, err
		}
		valid, reason = ValidateGeneratedText(text, req.Level, conversational)
		if !valid {
			return "", conversational, newServiceError(KindContent,
				"Contenido generado no válido tras reintento: "+reason, nil)
		}
	}

	if !conversational {
		s.contexts.Update(sessionID, model.SessionContext{
			LastDocument: text,
			LastPrompt:   req.Prompt,
			LastDocType:  req.DocType,
			LastTemplate: req.Template,
			LastLevel:    req.Level,
			LastLanguage: req.Language,
		})
	}
	s.responses.Put(cacheKey, text)

	return text, conversational, nil
}

func (s *DocumentService) complete(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.OpenAI.Timeout)
	defer cancel()
	return s.ai.CreateCompletion(callCtx, messages, maxTokens, s.cfg.OpenAI.Temperature)
}

// ResetContext 清除会话的文档上下文，此后生成不再引用之前的文档
func (s *DocumentService) ResetContext(sessionID string) {
	s.contexts.Reset(sessionID)
	logger.Infof("session context reset: %s", sessionID)
}
