package examine

import "github.com/examine-dev/examine/raster"

// Default processing caps.
const (
	DefaultMaxPages           = 35
	DefaultMaxDiagramsPerPage = 25
)

// options holds the configuration of a Parser.
type options struct {
	maxPages           int
	maxDiagramsPerPage int
	encoder            raster.Encoder
}

// defaultOptions returns the default parser configuration.
func defaultOptions() options {
	return options{
		maxPages:           DefaultMaxPages,
		maxDiagramsPerPage: DefaultMaxDiagramsPerPage,
		encoder:            raster.NewPNGEncoder(),
	}
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxPages caps how many pages are processed. Pages beyond the cap are
// silently not processed.
func WithMaxPages(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.options.maxPages = n
		}
	}
}

// WithMaxDiagramsPerPage caps how many diagrams are recorded per page.
func WithMaxDiagramsPerPage(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.options.maxDiagramsPerPage = n
		}
	}
}

// WithEncoder replaces the default PNG encoder.
func WithEncoder(e raster.Encoder) Option {
	return func(p *Parser) {
		if e != nil {
			p.options.encoder = e
		}
	}
}
