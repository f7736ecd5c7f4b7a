package validation

import (
	"encoding/json"
	"io"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// Encode returns the indented JSON artifact for r.
func Encode(r *Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// RenderReport writes the human-readable HTML report for r: the indented
// JSON artifact inside a pre block.
func RenderReport(w io.Writer, r *Result) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}
	return reportPage(string(data)).Render(w)
}

func reportPage(body string) g.Node {
	return html.HTML(
		html.Body(
			html.H2(g.Text("Data Validation Report")),
			html.Pre(g.Text(body)),
		),
	)
}
