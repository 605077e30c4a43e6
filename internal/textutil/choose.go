package textutil

// Choose returns whenTrue if cond holds and whenFalse otherwise.
func Choose[T any](cond bool, whenTrue, whenFalse T) T {
	if cond {
		return whenTrue
	}
	return whenFalse
}
