package llmjson

import (
	"encoding/json"
	"regexp"
)

// BoolField finds `"name": true|false` anywhere in raw.
func BoolField(raw string, name string) (bool, bool) {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*(true|false)`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return false, false
	}
	return m[1] == "true", true
}

// StringField finds `"name": "value"` anywhere in raw and returns the unescaped value.
func StringField(raw string, name string) (string, bool) {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*("(?:[^"\\]|\\.)*")`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal([]byte(m[1]), &s); err != nil {
		return "", false
	}
	return s, true
}
