//go:build tinygo

package logx

// No fmt on MCU targets; records print unformatted with trailing args.
func write(prefix, format string, args ...any) {
	if len(args) == 0 {
		println(prefix + format)
		return
	}
	print(prefix + format)
	for _, a := range args {
		switch v := a.(type) {
		case string:
			print(" ", v)
		case int:
			print(" ", v)
		case int32:
			print(" ", v)
		case uint32:
			print(" ", v)
		case bool:
			print(" ", v)
		case error:
			print(" ", v.Error())
		default:
			print(" ?")
		}
	}
	println()
}
