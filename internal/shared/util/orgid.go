package util

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OrgIDString normalizes a decoded org_id value. Strings and numbers are
// accepted; zero, empty, boolean, null and structured values yield "".
func OrgIDString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return numberString(t.String())
	case json.RawMessage:
		return rawOrgID(t)
	case float64:
		if t == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return intString(int64(t))
	case int64:
		return intString(t)
	case int32:
		return intString(int64(t))
	default:
		return ""
	}
}

func rawOrgID(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	return OrgIDString(v)
}

func numberString(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 {
		return ""
	}
	return s
}

func intString(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// SafeOrgID reports whether id can be used as a single storage path segment.
func SafeOrgID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00") && !strings.Contains(id, "..")
}
