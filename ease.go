package materialize

// EaseInOutQuad is the symmetric quadratic ease: it accelerates from begin
// over the first half of duration and decelerates into end over the second.
// t is the elapsed time in the same units as duration.
func EaseInOutQuad(t, begin, end, duration float64) float64 {
	d := end - begin
	u := t / (duration / 2)
	if u < 1 {
		return begin + d/2*u*u
	}
	u--
	return begin - d/2*(u*(u-2)-1)
}
