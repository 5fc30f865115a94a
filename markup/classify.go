package markup

import "github.com/ByLCY/textfx/textutil"

// richTextMeta is the marker the rich-text editor writes into its documents.
const richTextMeta = `<meta name="qrichtext`

var htmlMarkers = []string{"<html", "<head", "<body", "<font", "<p"}

// IsHTML reports whether any of the known HTML tags appears in s.
func IsHTML(s string) bool {
	for _, m := range htmlMarkers {
		if textutil.Contains(s, m) {
			return true
		}
	}
	return false
}

// IsRichText reports whether s is an editor document. Strict mode also
// requires the editor's meta marker.
func IsRichText(s string, strict bool) bool {
	if !textutil.Contains(s, "<body") {
		return false
	}
	return !strict || textutil.Contains(s, richTextMeta)
}

// IsLegacyRichText reports the old single-font dialect, which always starts
// with a font tag.
func IsLegacyRichText(s string) bool { return textutil.StartsWith(s, "<font") }

// IsMarkup reports whether s already looks like span markup and must not be
// translated again.
func IsMarkup(s string) bool {
	if IsHTML(s) || IsRichText(s, true) {
		return false
	}
	return textutil.Contains(s, "<span") && textutil.Contains(s, "</span>")
}
