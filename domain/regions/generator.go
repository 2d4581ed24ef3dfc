package regions

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/soocke/cellcount-go/domain/classify"
)

const (
	Margin      = 40.0
	MinSize     = 25.0
	MaxSize     = 70.0
	MinAspect   = 0.7
	MaxAspect   = 1.3
	MinSides    = 5
	MaxSides    = 7
	fullCircleR = 2 * math.Pi
)

// RandomGenerator places markers uniformly at random. Safe for concurrent use.
type RandomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator returns a generator backed by src, or a randomly seeded
// PCG source when src is nil.
func NewRandomGenerator(src rand.Source) *RandomGenerator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomGenerator{rng: rand.New(src)}
}

// Generate emits exactly counts[c] regions for every category c, in category
// order.
func (g *RandomGenerator) Generate(width, height float64, counts classify.Counts) []Region {
	total := 0
	for _, n := range counts {
		if n > 0 {
			total += n
		}
	}
	out := make([]Region, 0, total)

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, cat := range classify.Categories {
		for i := 0; i < counts[cat]; i++ {
			out = append(out, Region{
				Category:    cat,
				X:           g.axis(width),
				Y:           g.axis(height),
				Size:        MinSize + g.rng.Float64()*(MaxSize-MinSize),
				Shape:       Shapes[g.rng.IntN(len(Shapes))],
				Rotation:    g.rng.Float64() * fullCircleR,
				AspectRatio: MinAspect + g.rng.Float64()*(MaxAspect-MinAspect),
				Sides:       MinSides + g.rng.IntN(MaxSides-MinSides+1),
			})
		}
	}
	return out
}

// axis samples [Margin, dim-Margin]; dimensions too small for the margin
// collapse to the midpoint.
func (g *RandomGenerator) axis(dim float64) float64 {
	span := dim - 2*Margin
	if span <= 0 {
		return dim / 2
	}
	return Margin + g.rng.Float64()*span
}
