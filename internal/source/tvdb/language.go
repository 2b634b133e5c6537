package tvdb

import (
	"strings"

	"golang.org/x/text/language"
)

// normalizeLanguage reduces a language preference such as "en-US" to the
// lower-cased primary subtag the catalog names its documents after.
func normalizeLanguage(hint, fallback string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		hint = fallback
	}

	if tag, err := language.Raw.Parse(hint); err == nil {
		if base, conf := tag.Base(); conf == language.Exact {
			return strings.ToLower(base.String())
		}
	}

	primary, _, _ := strings.Cut(strings.ReplaceAll(hint, "_", "-"), "-")
	return strings.ToLower(primary)
}
