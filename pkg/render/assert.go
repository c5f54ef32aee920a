//go:build !debug

package render

import (
	"fmt"

	"github.com/taigrr/softrast/pkg/logging"
)

// invariant reports whether cond holds. In release builds a violation is
// logged at debug level and the caller skips the offending primitive.
func invariant(cond bool, format string, args ...any) bool {
	if !cond {
		logging.LogDebug("render invariant violated: %s", fmt.Sprintf(format, args...))
	}
	return cond
}
