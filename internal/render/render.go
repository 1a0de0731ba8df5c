package render

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

// ErrRender 统一对外的渲染失败错误，内部原因只进日志
var ErrRender = errors.New("No se pudo renderizar el documento")

// Translator 把界面文案翻译到目标语言，失败时实现方返回原文
type Translator interface {
	Translate(text, targetLang string) string
}

// Result 是一次渲染的产物
type Result struct {
	Display    string // 直接返回给前端展示的内容
	ArtifactID string // 可下载产物的标识，纯文本输出时为空
	Buffer     []byte
	MIMEType   string
	FileName   string
	Preview    string
}

type Renderer struct {
	translator Translator
	now        func() time.Time
}

func NewRenderer(tr Translator) *Renderer {
	return &Renderer{translator: tr, now: time.Now}
}

// Render 把生成的 Markdown 文本渲染为目标格式
//
// texto 和 markdown 不产生下载产物标识；html、pdf、docx 会分配一个。
// 任何后端出错或 panic 都折叠为 ErrRender。
func (r *Renderer) Render(text, docType, language, baseName, logoPath string) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic while rendering %s: %v", docType, rec)
			result = nil
			err = ErrRender
		}
	}()

	switch docType {
	case "texto":
		return &Result{
			Display:  text,
			Buffer:   []byte(text),
			MIMEType: "text/plain",
			FileName: baseName + ".txt",
		}, nil

	case "markdown":
		htmlOut, convErr := markdownToHTML(text, true)
		if convErr != nil {
			logger.Errorf("markdown conversion failed: %v", convErr)
			return nil, ErrRender
		}
		return &Result{
			Display:  htmlOut,
			Buffer:   []byte(htmlOut),
			MIMEType: "text/markdown",
			FileName: baseName + ".md",
			Preview:  htmlOut,
		}, nil

	case "html":
		fragment, convErr := markdownToHTML(text, false)
		if convErr != nil {
			logger.Errorf("markdown conversion failed: %v", convErr)
			return nil, ErrRender
		}
		page := htmlPage(fragment, language, baseName, r.now())
		return &Result{
			Display:    page,
			ArtifactID: uuid.NewString(),
			Buffer:     []byte(page),
			MIMEType:   "text/html",
			FileName:   baseName + ".html",
			Preview:    page,
		}, nil

	case "pdf":
		doc := Parse(text)
		data, pdfErr := renderPDF(doc, language, logoPath, r.translator)
		if pdfErr != nil {
			logger.Errorf("pdf rendering failed: %v", pdfErr)
			return nil, ErrRender
		}
		return &Result{
			Display:    "PDF generado. Usa el botón de descargar para obtener el archivo.",
			ArtifactID: uuid.NewString(),
			Buffer:     data,
			MIMEType:   "application/pdf",
			FileName:   baseName + ".pdf",
		}, nil

	case "docx":
		doc := Parse(text)
		data, docxErr := renderDOCX(doc, language, logoPath, r.translator)
		if docxErr != nil {
			logger.Errorf("docx rendering failed: %v", docxErr)
			return nil, ErrRender
		}
		return &Result{
			Display:    "DOCX generado. Usa el botón de descargar para obtener el archivo.",
			ArtifactID: uuid.NewString(),
			Buffer:     data,
			MIMEType:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			FileName:   baseName + ".docx",
			Preview:    extractPlainText(doc),
		}, nil

	default:
		logger.Warnf("unsupported document type: %s", docType)
		return nil, ErrRender
	}
}
