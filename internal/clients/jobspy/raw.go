package jobspy

import "strconv"

// RawJob is a single search result exactly as the provider returned it. The
// platforms disagree on field names and types, so results stay loose
// mappings until the normalizer extracts what it needs.
type RawJob map[string]any

// StringField returns the first of the given keys whose value can be read as
// a string. Numbers are formatted, null and every other type count as
// absent.
func (r RawJob) StringField(keys ...string) (string, bool) {
	for _, key := range keys {
		value, ok := r[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			return v, true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}
