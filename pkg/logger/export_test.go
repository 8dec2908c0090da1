package logger

// ResetGlobal clears the global logger and returns a func restoring it.
func ResetGlobal() (restore func()) {
	prev := global
	global = nil
	return func() { global = prev }
}
