package models

// Result is the outcome of one page fetch. Extraction is deliberately left
// to the caller so that several extraction strategies can share one fetch
// contract.
type Result struct {
	URL      string `json:"url"`
	HTML     string `json:"html"`
	Status   int    `json:"status"`
	RenderMS int    `json:"render_ms"`
}
