package config

const defaultRenderURL = "https://quickchart.io/chart"

type ChartConfig struct {
	URL string `yaml:"render-url"`
}

func (c *ChartConfig) RenderURL() string {
	if c.URL == "" {
		return defaultRenderURL
	}
	return c.URL
}
