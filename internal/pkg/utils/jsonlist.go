package utils

import (
	"encoding/json"
	"strings"
)

// ListToJSON converts []string to a JSON document (safe for DB)
func ListToJSON(list []string) []byte {
	if len(list) == 0 {
		return []byte("[]")
	}
	data, _ := json.Marshal(list)
	return data
}

// JSONToList converts a DB document back to []string
func JSONToList(data []byte) []string {
	if len(data) == 0 || string(data) == "[]" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		// Fallback: treat as comma-separated if invalid JSON
		return strings.Split(string(data), ",")
	}
	return list
}
