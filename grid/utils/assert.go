package utils

// Assert panics when condition is false. Used for invariants whose violation
// is a bug in the engine or a caller breaking its contract, never for
// recoverable conditions.
func Assert(condition bool, message ...string) {
	if !condition {
		if len(message) == 1 {
			panic(message[0])
		}
		panic("failed assertion")
	}
}
