//go:build debug

package render

import "fmt"

// invariant panics when cond does not hold. Build with -tags debug to turn
// geometric invariant violations into hard failures.
func invariant(cond bool, format string, args ...any) bool {
	if !cond {
		panic("render invariant violated: " + fmt.Sprintf(format, args...))
	}
	return true
}
