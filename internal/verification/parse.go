package verification

import (
	"regexp"
	"strings"
	"unicode"
)

// Heuristics for pulling structured fields out of OCR text. License layouts
// vary wildly between issuing authorities, so this favors labeled lines and
// falls back to shape-based guesses. A failed extraction returns nil and the
// caller treats the field as unverifiable.
var (
	licenseLabelRe = regexp.MustCompile(`(?i)(?:licen[cs]e|registration|permit)(?:\s*(?:no\.?|number|num))?\s*[:#\-]*\s*(.+)`)
	addressLabelRe = regexp.MustCompile(`(?i)(?:business\s+)?address\s*[:\-]\s*(.+)`)
	streetHintRe   = regexp.MustCompile(`(?i)\b\d+\b.*\b(?:st|street|ave|avenue|rd|road|blvd|boulevard|ln|lane|dr|drive|way|plaza|suite)\b`)
)

// extractLicenseNumber finds the first labeled license/registration/permit
// line and collects the identifier tokens that follow the label.
func extractLicenseNumber(raw string) *string {
	for _, line := range strings.Split(raw, "\n") {
		m := licenseLabelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if number := collectIdentifierTokens(m[1]); number != "" {
			return &number
		}
	}
	return nil
}

// collectIdentifierTokens keeps leading tokens that look like parts of an
// identifier (contain a digit, or short alphabetic prefixes like "LIC") and
// stops at the first word that reads as prose. Requires at least one digit
// in the result.
func collectIdentifierTokens(rest string) string {
	var kept []string
	hasDigit := false
	for _, tok := range strings.Fields(rest) {
		tok = strings.Trim(tok, ".,;")
		if tok == "" {
			continue
		}
		if containsDigit(tok) {
			hasDigit = true
			kept = append(kept, tok)
			continue
		}
		if len(tok) <= 4 {
			kept = append(kept, tok)
			continue
		}
		break
	}
	if !hasDigit {
		return ""
	}
	return strings.Join(kept, " ")
}

// extractLicenseAddress prefers an explicitly labeled address line, then
// falls back to the first line shaped like a street address.
func extractLicenseAddress(raw string) *string {
	lines := strings.Split(raw, "\n")
	for _, line := range lines {
		if m := addressLabelRe.FindStringSubmatch(line); m != nil {
			if addr := strings.TrimSpace(m[1]); addr != "" {
				return &addr
			}
		}
	}
	for _, line := range lines {
		if streetHintRe.MatchString(line) {
			addr := strings.TrimSpace(line)
			return &addr
		}
	}
	return nil
}

// normalizeLicense reduces a number to its uppercase letters and digits.
// This is deliberately wider than stripping whitespace alone: OCR renders
// the same license with varying case and punctuation, so "LIC 123-456"
// compares equal to "lic123456".
func normalizeLicense(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
