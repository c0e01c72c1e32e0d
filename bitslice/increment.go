package bitslice

// Increment treats cells [from, to) as a little-endian ternary counter whose
// digits are the same in every lane, and adds one to it. Digits step
// -1 -> 0 -> +1 and a +1 wraps to -1 with a carry into the next cell.
//
// It returns true when the carry ran off the end, i.e. every digit wrapped
// and the counter is back at all -1.
func Increment(state *State, from int, to int) (_overflow bool) {
	for ii := from; ii < to; ii++ {
		switch {
		case state.Low[ii] == 0:
			// +1 wraps to -1 and carries.
			state.Low[ii] = AllBits
			state.High[ii] = 0
		case state.High[ii] == 0:
			// -1 becomes 0.
			state.High[ii] = AllBits
			return false
		default:
			// 0 becomes +1.
			state.Low[ii] = 0
			return false
		}
	}
	return from < to
}
