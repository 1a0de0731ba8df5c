package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gabo9803/IA-GENERADOR/internal/cache"
	"github.com/Gabo9803/IA-GENERADOR/internal/config"
	"github.com/Gabo9803/IA-GENERADOR/internal/model"
	"github.com/Gabo9803/IA-GENERADOR/internal/render"
	"github.com/Gabo9803/IA-GENERADOR/internal/service"
	"github.com/Gabo9803/IA-GENERADOR/internal/storage"
	"github.com/Gabo9803/IA-GENERADOR/internal/utils"
	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

// 会话标识头。客户端没带时服务端生成一个并在响应头里回传
const SessionHeader = "X-Session-ID"

// 每次生成最多引用的历史条数
const historyLimit = 20

// Artifact 渲染产物，放进 TTL 缓存等待下载
type Artifact struct {
	Buffer   []byte
	FileName string
	MIMEType string
}

type DocumentHandler struct {
	cfg       *config.Config
	store     storage.Storage
	docs      *service.DocumentService
	renderer  *render.Renderer
	artifacts *cache.Cache[Artifact]
}

func NewDocumentHandler(cfg *config.Config, store storage.Storage, docs *service.DocumentService,
	renderer *render.Renderer, artifacts *cache.Cache[Artifact]) *DocumentHandler {
	return &DocumentHandler{
		cfg:       cfg,
		store:     store,
		docs:      docs,
		renderer:  renderer,
		artifacts: artifacts,
	}
}

func (h *DocumentHandler) sessionID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(SessionHeader))
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(SessionHeader, id)
	return id
}

func (h *DocumentHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		if svcErr.Kind == service.KindValidation {
			status = http.StatusBadRequest
		}
	}

	logger.Errorf("request failed: %v", err)
	c.JSON(status, gin.H{"error": message})
}

// Generate 生成文档：校验、取历史、调模型、套模板、记历史、渲染并登记下载产物
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El prompt está vacío."})
		return
	}
	sessionID := h.sessionID(c)

	service.NormalizeRequest(&req)
	if err := service.ValidateRequest(&req, h.cfg.Limits); err != nil {
		h.respondError(c, err)
		return
	}
	if err := service.CheckRequiredFields(req.Template, req.Fields); err != nil {
		h.respondError(c, err)
		return
	}

	history, err := h.store.GetHistory(sessionID, historyLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	text, conversational, err := h.docs.Generate(c.Request.Context(), &req, history, sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if text == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "El texto generado está vacío."})
		return
	}

	if skeleton, ok := service.Templates[req.Template]; ok && len(req.Fields) > 0 && !conversational {
		text, err = service.ApplyTemplate(skeleton, req.Fields, text)
		if err != nil {
			h.respondError(c, err)
			return
		}
	}

	h.appendHistory(sessionID, model.RoleUser, req.Prompt)
	h.appendHistory(sessionID, model.RoleAssistant, text)
	h.appendHistory(sessionID, model.RoleSystem,
		fmt.Sprintf("Documento generado: tipo=%s, nivel=%s, idioma=%s", req.DocType, req.Level, req.Language))

	resp := model.GenerateResponse{
		Response:   text,
		DocType:    req.DocType,
		IsDocument: !conversational,
	}

	if conversational {
		resp.PreviewContent = text
		c.JSON(http.StatusOK, resp)
		return
	}

	baseName := req.FileName
	if baseName == "" {
		baseName = utils.GenerateFileName(req.Prompt, req.Template, req.DocType, req.Level)
	}

	result, err := h.renderer.Render(text, req.DocType, req.Language, baseName, req.LogoPath)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp.FileName = result.FileName
	resp.FileID = result.ArtifactID
	resp.PreviewContent = previewText(result, req.DocType)
	h.storeArtifact(result)

	c.JSON(http.StatusOK, resp)
}

// Preview 渲染任意文本的预览，不经过模型
func (h *DocumentHandler) Preview(c *gin.Context) {
	var req model.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El texto está vacío."})
		return
	}

	text := strings.TrimSpace(req.Text)
	docType := strings.ToLower(strings.TrimSpace(req.DocType))
	if docType == "" {
		docType = "texto"
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El texto está vacío."})
		return
	}
	if !service.IsValidDocType(docType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Tipo de documento inválido: " + strings.Join(service.ValidDocTypes(), ", "),
		})
		return
	}

	result, err := h.renderer.Render(text, docType, "es", "preview", "")
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.storeArtifact(result)

	c.JSON(http.StatusOK, model.PreviewResponse{
		Preview: previewText(result, docType),
		FileID:  result.ArtifactID,
	})
}

// Download 按产物标识下载渲染结果。缓存过期即 404
func (h *DocumentHandler) Download(c *gin.Context) {
	fileID := c.Param("file_id")
	artifact, ok := h.artifacts.Get(fileID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Archivo no encontrado."})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.FileName))
	c.Data(http.StatusOK, artifact.MIMEType, artifact.Buffer)
}

func (h *DocumentHandler) GetHistory(c *gin.Context) {
	sessionID := h.sessionID(c)
	history, err := h.store.GetHistory(sessionID, historyLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if history == nil {
		history = []model.HistoryEntry{}
	}
	c.JSON(http.StatusOK, model.HistoryResponse{History: history})
}

// ClearHistory 清空历史的同时重置会话上下文
func (h *DocumentHandler) ClearHistory(c *gin.Context) {
	sessionID := h.sessionID(c)
	if err := h.store.ClearHistory(sessionID); err != nil {
		h.respondError(c, err)
		return
	}
	h.docs.ResetContext(sessionID)
	logger.Infof("history and context cleared for session %s", sessionID)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *DocumentHandler) ResetContext(c *gin.Context) {
	sessionID := h.sessionID(c)
	h.docs.ResetContext(sessionID)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *DocumentHandler) SaveTemplate(c *gin.Context) {
	var req model.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	content := strings.TrimSpace(req.Content)
	if name == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre o contenido de la plantilla vacío."})
		return
	}

	if err := h.store.SaveTemplate(model.Template{Name: name, Content: content}); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListTemplates 返回内置模板加用户保存的模板，同名时用户版本优先
func (h *DocumentHandler) ListTemplates(c *gin.Context) {
	saved, err := h.store.ListTemplates()
	if err != nil {
		h.respondError(c, err)
		return
	}

	merged := make(map[string]string, len(service.Templates)+len(saved))
	for name, content := range service.Templates {
		merged[name] = content
	}
	for _, tpl := range saved {
		merged[tpl.Name] = tpl.Content
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	templates := make([]model.Template, 0, len(names))
	for _, name := range names {
		templates = append(templates, model.Template{Name: name, Content: merged[name]})
	}
	c.JSON(http.StatusOK, model.TemplatesResponse{Templates: templates})
}

func (h *DocumentHandler) PromptSuggestions(c *gin.Context) {
	var req model.PromptSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docType := strings.ToLower(strings.TrimSpace(req.DocType))
	template := strings.ToLower(strings.TrimSpace(req.Template))
	c.JSON(http.StatusOK, gin.H{"suggestions": service.PromptSuggestions(docType, template)})
}

func (h *DocumentHandler) SuggestFields(c *gin.Context) {
	var req model.SuggestFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": service.SuggestFields(req.TemplateContent)})
}

// UploadLogo 保存上传的徽标文件，返回可用于生成请求的路径
func (h *DocumentHandler) UploadLogo(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se proporcionó archivo"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre de archivo vacío"})
		return
	}

	if err := os.MkdirAll(h.cfg.Uploads.Dir, 0o755); err != nil {
		h.respondError(c, err)
		return
	}
	path := filepath.Join(h.cfg.Uploads.Dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (h *DocumentHandler) appendHistory(sessionID, role, content string) {
	if err := h.store.AppendHistory(sessionID, role, content); err != nil {
		logger.Errorf("failed to append %s history entry: %v", role, err)
	}
}

func (h *DocumentHandler) storeArtifact(result *render.Result) {
	if result.ArtifactID == "" {
		return
	}
	h.artifacts.Put(result.ArtifactID, Artifact{
		Buffer:   result.Buffer,
		FileName: result.FileName,
		MIMEType: result.MIMEType,
	})
}

// previewText 选择预览内容。DOCX 的纯文本预览压缩空行
func previewText(result *render.Result, docType string) string {
	preview := result.Preview
	if preview == "" {
		preview = result.Display
	}
	if docType == "docx" {
		preview = strings.TrimSpace(strings.ReplaceAll(preview, "\n\n", "\n"))
	}
	return preview
}
