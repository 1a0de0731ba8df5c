package render

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

// renderChart 把图表指令绘制为 PNG。绘制失败时返回 nil，文档照常渲染
func renderChart(c *Chart) []byte {
	if c == nil || len(c.Values) == 0 {
		return nil
	}

	var buf bytes.Buffer
	var err error

	switch c.Kind {
	case "bar":
		bars := make([]chart.Value, len(c.Values))
		for i, v := range c.Values {
			bars[i] = chart.Value{Label: c.Labels[i], Value: v}
		}
		graph := chart.BarChart{
			Title:  "Gráfico Generado",
			Width:  600,
			Height: 400,
			Bars:   bars,
		}
		err = graph.Render(chart.PNG, &buf)
	case "line":
		xs := make([]float64, len(c.Values))
		ticks := make([]chart.Tick, len(c.Values))
		for i := range c.Values {
			xs[i] = float64(i)
			ticks[i] = chart.Tick{Value: float64(i), Label: c.Labels[i]}
		}
		graph := chart.Chart{
			Title:  "Gráfico Generado",
			Width:  600,
			Height: 400,
			XAxis:  chart.XAxis{Ticks: ticks},
			Series: []chart.Series{
				chart.ContinuousSeries{XValues: xs, YValues: c.Values},
			},
		}
		err = graph.Render(chart.PNG, &buf)
	default:
		return nil
	}

	if err != nil {
		logger.Errorf("failed to render %s chart: %v", c.Kind, err)
		return nil
	}
	return buf.Bytes()
}
