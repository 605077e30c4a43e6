package testsupport

// ScriptedRand replays fixed values for Float64 and IntN. Once a script is
// exhausted the corresponding method returns 0.
type ScriptedRand struct {
	Floats []float64
	Ints   []int
}

// Float64 returns the next scripted float.
func (r *ScriptedRand) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[0]
	r.Floats = r.Floats[1:]
	return v
}

// IntN returns the next scripted int reduced into [0, n).
func (r *ScriptedRand) IntN(n int) int {
	if len(r.Ints) == 0 || n <= 0 {
		return 0
	}
	v := r.Ints[0]
	r.Ints = r.Ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}
