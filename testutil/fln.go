package testutil

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Pos is a "file:line: " prefix for failure messages about a test case; the zero Pos is an
// empty prefix.
type Pos string

// Here returns the position of the caller of the function that called Here, so that a helper
// used inside a table of test cases records the line of each case.
func Here() Pos {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	return Pos(fmt.Sprintf("%s:%d: ", filepath.Base(file), line))
}
