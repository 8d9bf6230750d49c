package fractal

// EscapeRadiusSq is the squared escape radius. An orbit that reaches
// |z|^2 >= EscapeRadiusSq is considered escaped.
const EscapeRadiusSq = 4.0

// Evaluate iterates z <- z^2 + c starting at z0 and reports the orbit length
// at which |z| first reaches the escape radius.
//
// One orbit-length unit folds step raw iterations: the radius is tested at
// lengths 0, step, 2*step, ... while the length stays below budget. The
// returned length is therefore a multiple of step and strictly less than
// budget. ok is false when the orbit stays bounded for the whole budget.
func Evaluate(z0, c complex128, budget, step int) (n int, ok bool) {
	if step < 1 {
		step = 1
	}
	z := z0
	for i := 0; i < budget; i += step {
		if real(z)*real(z)+imag(z)*imag(z) >= EscapeRadiusSq {
			return i, true
		}
		for k := 0; k < step; k++ {
			z = z*z + c
		}
	}
	return 0, false
}
