package normalization

import (
  "strings"
  "unicode"
)

// ParseInputString trims surrounding whitespace and collapses inner runs
// of whitespace to a single space.
func ParseInputString(s string) string {
  return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

// ParseEmail lower-cases in addition to trimming; emails are stored and
// compared in lower-case form.
func ParseEmail(s string) string {
  return strings.ToLower(ParseInputString(s))
}

// Slugify turns a title into a url-safe slug: lower-case, alphanumerics
// kept, everything else collapsed into single hyphens.
func Slugify(s string) string {
  s = strings.ToLower(strings.TrimSpace(s))
  var b strings.Builder
  lastHyphen := true
  for _, r := range s {
    switch {
    case unicode.IsLetter(r) || unicode.IsDigit(r):
      b.WriteRune(r)
      lastHyphen = false
    default:
      if !lastHyphen {
        b.WriteRune('-')
        lastHyphen = true
      }
    }
  }
  return strings.Trim(b.String(), "-")
}
