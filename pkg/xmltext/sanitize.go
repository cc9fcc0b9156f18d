// Package xmltext prepares form-author supplied strings for inclusion in the
// generated XML documents.
package xmltext

import (
	"bytes"
	"encoding/xml"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Clean strips markup from display text (labels and titles) and escapes what
// remains, so the result can be placed in element content or a double-quoted
// attribute as-is. Stored data such as default values and option names goes
// through Escape instead, since markup stripping would change it.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(textSanitizer().Sanitize(raw))
}

// Escape escapes identifiers and stored values for use in element content or
// a double-quoted attribute without altering their text.
func Escape(raw string) string {
	if raw == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(raw)); err != nil {
		return raw
	}
	return buf.String()
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
