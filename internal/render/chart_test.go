package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderChartBar(t *testing.T) {
	data := renderChart(&Chart{
		Kind:   "bar",
		Labels: []string{"Enero", "Febrero"},
		Values: []float64{10, 20},
	})

	require.NotEmpty(t, data)
	assert.Equal(t, pngMagic, data[:4])
}

func TestRenderChartLine(t *testing.T) {
	data := renderChart(&Chart{
		Kind:   "line",
		Labels: []string{"q1", "q2", "q3"},
		Values: []float64{1, 3, 2},
	})

	require.NotEmpty(t, data)
	assert.Equal(t, pngMagic, data[:4])
}

func TestRenderChartDegenerateInput(t *testing.T) {
	assert.Nil(t, renderChart(nil))
	assert.Nil(t, renderChart(&Chart{Kind: "bar"}))
	assert.Nil(t, renderChart(&Chart{Kind: "pie", Labels: []string{"a"}, Values: []float64{1}}))
}
