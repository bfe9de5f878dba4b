package cpu

import (
	"math/rand"
	"time"
)

// RandomSource supplies the uniform bytes consumed by RND.
type RandomSource interface {
	Byte() uint8
}

type mathRand struct {
	r *rand.Rand
}

func (m mathRand) Byte() uint8 {
	return uint8(m.r.Intn(256))
}

// NewRandom returns a RandomSource backed by math/rand with the given seed.
func NewRandom(seed int64) RandomSource {
	return mathRand{r: rand.New(rand.NewSource(seed))}
}

func defaultRandom() RandomSource {
	return NewRandom(time.Now().UnixNano())
}
