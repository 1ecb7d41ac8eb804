package ast

import "fmt"

// quoteString renders a literal's unescaped body back into Go-quoted form
// for String(), matching how the original source prints string constants
// in diagnostics.
func quoteString(value string) string {
	return fmt.Sprintf("%q", value)
}
