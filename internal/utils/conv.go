package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// ParsePage reads a 1-based page number from a query value. Anything that is
// not a positive integer means the first page.
func ParsePage(s string) int {
	if page := StringToInt(s); page > 0 {
		return page
	}
	return 1
}

// ParseID parses a positive numeric identifier from a path parameter.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
