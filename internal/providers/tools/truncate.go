package tools

import "fmt"

const (
	maxOutputLen = 4000
	headLen      = 1000
)

// Truncate keeps the head and tail of long tool output.
func Truncate(input string, maxLen int) string {
	if maxLen <= headLen || len(input) <= maxLen {
		return input
	}

	head := input[:headLen]
	tail := input[len(input)-(maxLen-headLen):]
	return fmt.Sprintf("%s\n\n... [TRUNCATED %d bytes] ...\n\n%s", head, len(input)-maxLen, tail)
}
