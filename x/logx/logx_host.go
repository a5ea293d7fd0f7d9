//go:build !tinygo

package logx

import "fmt"

func write(prefix, format string, args ...any) {
	fmt.Printf(prefix+format+"\n", args...)
}
