package battleship

// scriptedRand replays values in order, wrapping around, each reduced
// modulo the requested bound.
type scriptedRand struct {
	values []int
	next   int
}

func newScriptedRand(values ...int) *scriptedRand {
	return &scriptedRand{values: values}
}

func (s *scriptedRand) IntN(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}
