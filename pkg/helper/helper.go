package helper

import (
	"runtime"
	"strings"
)

// GetFuncName returns the fully qualified name of the calling function.
func GetFuncName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

// ShortFuncName trims the package path from a name returned by GetFuncName.
func ShortFuncName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		return name[idx+1:]
	}
	return name
}
