package pm1006

import (
	"fmt"
	"strings"
)

// RINGSIZE is how many samples make one averaging cycle
const RINGSIZE = 5

type Number interface {
	~uint8 | ~uint16 | ~uint32 | ~int | ~float32 | ~float64
}

/*
Ring is fixed capacity circular history. Push overwrites the slot at write index.
Zero value is ready to use, unwritten slots are zero
*/
type Ring[T Number] struct {
	values [RINGSIZE]T
	idx    int
}

// Push returns true when write index wrapped back to zero. Cycle is complete then
func (p *Ring[T]) Push(v T) bool {
	p.values[p.idx] = v
	p.idx = (p.idx + 1) % RINGSIZE
	return p.idx == 0
}

// Index is next slot to be written
func (p *Ring[T]) Index() int {
	return p.idx
}

func (p *Ring[T]) Values() [RINGSIZE]T {
	return p.values
}

// Mean of all slots, written or not. Sum first so integer means stay exact
func (p *Ring[T]) Mean() float64 {
	sum := 0.0
	for _, v := range p.values {
		sum += float64(v)
	}
	return sum / RINGSIZE
}

func (p *Ring[T]) Reset() {
	*p = Ring[T]{}
}

func (p *Ring[T]) String() string {
	toks := make([]string, len(p.values))
	for i, v := range p.values {
		toks[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(toks, ", ")
}
