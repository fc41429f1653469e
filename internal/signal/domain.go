package signal

import "strings"

// MapDomain resolves a raw business domain through the alias table.
// Unmapped values pass through trimmed; missing or non-string values
// become UnknownDomain.
func (d *Deriver) MapDomain(raw interface{}) string {
	s, ok := raw.(string)
	if !ok || s == "" {
		return UnknownDomain
	}
	cleaned := strings.TrimSpace(s)
	if alias, ok := d.config.DomainAliases[strings.ToLower(cleaned)]; ok {
		return alias
	}
	return cleaned
}
