package helper

import (
	"runtime"
	"strings"
)

// GetFuncName returns the short name of the calling function, e.g. "(*PilotService).SubmitPilotRequest".
//go:noinline
func GetFuncName() string {
	pc, _, _, _ := runtime.Caller(1)
	name := runtime.FuncForPC(pc).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
