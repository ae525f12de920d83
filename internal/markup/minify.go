package markup

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton). Document and
// end tags plus attribute quotes are kept so minified output parses back into
// the same tree.
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
	})
	return minifier
}

// Minify removes insignificant whitespace from rendered markup. If
// minification fails the input is returned unchanged.
func Minify(markup string) string {
	minified, err := getMinifier().String("text/html", markup)
	if err != nil {
		return markup
	}
	return minified
}
