package prompt

import "strings"

// Substitutor resolves template tokens in fragment content at composition
// time. It is pure and synchronous; the engine passes through whatever
// names it is configured with without knowing their semantics.
type Substitutor func(template, userName, charName, original string) string

// DefaultSubstitutor replaces the {{user}}, {{char}} and {{original}}
// tokens (case-insensitive) with the provided names.
func DefaultSubstitutor(template, userName, charName, original string) string {
	r := strings.NewReplacer(
		"{{user}}", userName,
		"{{User}}", userName,
		"{{USER}}", userName,
		"{{char}}", charName,
		"{{Char}}", charName,
		"{{CHAR}}", charName,
		"{{original}}", original,
		"{{Original}}", original,
	)
	return r.Replace(template)
}
