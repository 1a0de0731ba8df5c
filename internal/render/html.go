package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// markdownConverter 用于 markdown 输出，保留换行
var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithUnsafe(),
	),
)

// pageConverter 用于 HTML 页面内嵌片段
var pageConverter = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

func markdownToHTML(text string, hardWraps bool) (string, error) {
	converter := pageConverter
	if hardWraps {
		converter = markdownConverter
	}
	var buf bytes.Buffer
	if err := converter.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

var spanishMonths = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func generationDate(now time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", now.Day(), spanishMonths[now.Month()-1], now.Year())
}

// htmlPage 把渲染好的片段包装为完整页面，带固定的信息框和配置表
func htmlPage(fragment, language, fileName string, now time.Time) string {
	title := html.EscapeString(fileName)
	return fmt.Sprintf(htmlPageTemplate,
		html.EscapeString(language),
		title,
		title,
		generationDate(now),
		html.EscapeString(strings.ToUpper(language)),
		fragment,
	)
}

const htmlPageTemplate = `<!DOCTYPE html>
<html lang="%s">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body {
            font-family: 'Calibri', sans-serif;
            margin: 40px auto;
            line-height: 1.6;
            max-width: 900px;
            padding: 0 20px;
            color: #333;
            background-color: #f9f9f9;
        }
        h1 {
            color: #4f46e5;
            font-size: 32px;
            border-bottom: 3px solid #4f46e5;
            padding-bottom: 8px;
            margin-bottom: 25px;
            text-align: center;
        }
        h2 {
            color: #4f46e5;
            font-size: 24px;
            margin-top: 30px;
            margin-bottom: 15px;
            border-left: 5px solid #4f46e5;
            padding-left: 10px;
        }
        h3 {
            color: #4f46e5;
            font-size: 20px;
            margin-top: 20px;
            margin-bottom: 10px;
        }
        ul, ol {
            margin: 15px 0;
            padding-left: 30px;
        }
        li {
            margin-bottom: 10px;
        }
        table {
            border-collapse: collapse;
            width: 100%%;
            margin: 20px 0;
            box-shadow: 0 3px 8px rgba(0,0,0,0.1);
            background-color: #fff;
        }
        th, td {
            border: 1px solid #ddd;
            padding: 12px;
            text-align: left;
        }
        th {
            background-color: #f0f0f0;
            font-weight: bold;
            color: #333;
        }
        p {
            margin: 12px 0;
            text-align: justify;
            font-size: 16px;
        }
        .info-box, .config-box {
            background-color: #fff;
            border: 2px solid #4f46e5;
            border-radius: 8px;
            padding: 20px;
            margin: 20px 0;
            box-shadow: 0 3px 8px rgba(0,0,0,0.1);
        }
        .info-box h2, .config-box h2 {
            margin-top: 0;
            border-left: none;
            padding-left: 0;
        }
        .config-box table {
            box-shadow: none;
            margin: 0;
        }
        hr {
            border: 0;
            border-top: 1px solid #ddd;
            margin: 20px 0;
        }
    </style>
</head>
<body>
    <h1>%s</h1>
    <div class="info-box">
        <h2>Información sobre la IA</h2>
        <p>
            Este documento fue generado por <strong>GarBotGPT</strong>, una IA desarrollada por GarolaCorp. GarBotGPT está diseñado para asistir a los usuarios en la creación de documentos profesionales y bien estructurados, ofreciendo respuestas útiles y precisas. Este documento se generó utilizando un modelo avanzado de IA con parámetros optimizados para claridad y profesionalismo.
        </p>
        <p>
            <strong>Fecha de Generación:</strong> %s<br>
            <strong>Idioma:</strong> %s<br>
            <strong>Plataforma:</strong> GarBotGPT Generador de documentos
        </p>
    </div>
    <div class="config-box">
        <h2>Configuración del Documento</h2>
        <p>A continuación, se detalla la configuración utilizada para generar este documento:</p>
        <table>
            <tr>
                <th>Parámetro</th>
                <th>Valor</th>
            </tr>
            <tr>
                <td>Fuente Principal</td>
                <td>Calibri</td>
            </tr>
            <tr>
                <td>Tamaño de Fuente</td>
                <td>16px (Encabezados), 11px (Cuerpo)</td>
            </tr>
            <tr>
                <td>Color Principal</td>
                <td>#4f46e5</td>
            </tr>
            <tr>
                <td>Márgenes</td>
                <td>1 pulgada (todos los lados)</td>
            </tr>
            <tr>
                <td>Tema</td>
                <td>Moderno (Claro)</td>
            </tr>
            <tr>
                <td>Espaciado de Líneas</td>
                <td>1.15</td>
            </tr>
        </table>
    </div>
    <hr>
    %s
</body>
</html>
`
