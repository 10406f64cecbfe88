package utils

import "strings"

// ParseListString splits a comma separated value into trimmed tokens.
// Surrounding brackets and quotes are stripped, empty and repeated tokens
// are dropped and the first-seen order is kept. Blank input yields an
// empty, non-nil slice.
func ParseListString(raw string) []string {
	str := strings.TrimSpace(raw)
	if strings.HasPrefix(str, "[") && strings.HasSuffix(str, "]") {
		str = str[1 : len(str)-1]
	}
	if strings.TrimSpace(str) == "" {
		return []string{}
	}

	items := strings.Split(str, ",")
	result := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		item = strings.Trim(item, "\"")
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}

	return result
}

// ParseListValues flattens repeated query values (?a=x&a=y,z) into one list
func ParseListValues(values []string) []string {
	return ParseListString(strings.Join(values, ","))
}
