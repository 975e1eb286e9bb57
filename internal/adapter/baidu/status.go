package baidu

import (
	"encoding/json"
	"strings"
)

// Each API version validates its status field only when the result
// collection is empty: the status then explains whether the emptiness is a
// legitimate no-match (the version's pass value) or a rejected request.
// The tables map normalized status tokens to the provider-documented causes.

const (
	v1StatusOK = "OK"
	v2StatusOK = "0"
)

var v1StatusMessages = map[string]string{
	"1":                  "Server internal error.",
	"INVILID_KEY":        "Invalid key.", // the provider misspells this status value; must match verbatim
	"INVALID_PARAMETERS": "INVALID PARAMETERS.",
}

var v2StatusMessages = map[string]string{
	"1":   "Server internal error.",
	"2":   "Invalid request.",
	"3":   "Permission validation failed.",
	"4":   "Quota validation failed.",
	"5":   "Invalid ak.",
	"101": "Service disabled.",
	"102": "Failed to pass the whitelist or wrong security code.",
}

// checkStatus validates a provider status against a version's table. The
// pass value yields nil; a mapped value yields its QueryError; anything
// else is an unknown provider-side rejection.
func checkStatus(raw json.RawMessage, pass string, table map[string]string) error {
	status := normalizeStatus(raw)
	if status == pass {
		return nil
	}
	if msg, ok := table[status]; ok {
		return &QueryError{Status: status, Message: msg}
	}
	return &QueryError{Status: status, Message: "Unknown error."}
}

// normalizeStatus renders the status scalar as a comparable token. V1 mixes
// strings ("OK", "INVILID_KEY") with numbers (1) in the same field; V2 is
// purely numeric.
func normalizeStatus(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// emptyResult reports whether a result collection is absent: missing, null,
// or an empty list/object. The V1 API returns an empty list for a field that
// is otherwise a single object.
func emptyResult(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}
