package chart

import (
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

const legendRight = "right"

// Spec is a declarative chart description in the chart.js shape the
// rendering service consumes. Nothing here draws pixels.
type Spec struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Data []float64 `json:"data"`
}

type Options struct {
	Plugins Plugins `json:"plugins"`
}

type Plugins struct {
	Title  Title  `json:"title"`
	Legend Legend `json:"legend"`
}

type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Legend struct {
	Position string `json:"position"`
}

// PieSpec builds a single-dataset pie chart, values aligned positionally
// with labels.
func PieSpec(labels []string, values []float64, title string) Spec {
	return Spec{
		Type: "pie",
		Data: Data{
			Labels:   labels,
			Datasets: []Dataset{{Data: values}},
		},
		Options: Options{
			Plugins: Plugins{
				Title:  Title{Display: true, Text: title},
				Legend: Legend{Position: legendRight},
			},
		},
	}
}

type renderURLGetter interface {
	RenderURL() string
}

// Client embeds chart specs into render URLs for the external service.
type Client struct {
	renderURL string
}

func New(getter renderURLGetter) *Client {
	return &Client{renderURL: getter.RenderURL()}
}

func (c *Client) URL(spec Spec) (string, error) {
	payload, err := json.Marshal(spec)
	if err != nil {
		return "", errors.Wrap(err, "marshal chart spec")
	}

	q := url.Values{}
	q.Set("c", string(payload))
	return c.renderURL + "?" + q.Encode(), nil
}
