package chart

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRenderURL string

func (s staticRenderURL) RenderURL() string {
	return string(s)
}

func Test_OnPieSpec_ShouldBuildSingleDatasetPie(t *testing.T) {
	spec := PieSpec([]string{"food", "transport"}, []float64{15.5, 3.25}, "Expenses for this month")

	assert.Equal(t, "pie", spec.Type)
	assert.Equal(t, []string{"food", "transport"}, spec.Data.Labels)
	require.Len(t, spec.Data.Datasets, 1)
	assert.Equal(t, []float64{15.5, 3.25}, spec.Data.Datasets[0].Data)
	assert.True(t, spec.Options.Plugins.Title.Display)
	assert.Equal(t, "Expenses for this month", spec.Options.Plugins.Title.Text)
	assert.Equal(t, "right", spec.Options.Plugins.Legend.Position)
}

func Test_OnURL_ShouldEmbedSpecAsQueryParam(t *testing.T) {
	c := New(staticRenderURL("https://quickchart.io/chart"))
	spec := PieSpec([]string{"food"}, []float64{15.5}, "Expenses")

	rendered, err := c.URL(spec)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rendered, "https://quickchart.io/chart?c="))

	parsed, err := url.Parse(rendered)
	require.NoError(t, err)

	var decoded Spec
	require.NoError(t, json.Unmarshal([]byte(parsed.Query().Get("c")), &decoded))
	assert.Equal(t, spec, decoded)
}
