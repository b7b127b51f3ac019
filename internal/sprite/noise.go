package sprite

import (
	"math"
	"math/rand"
)

// noise is seeded 2D simplex noise used to texture the built-in art.
type noise struct {
	perm [512]int
}

func newNoise(seed int64) *noise {
	n := &noise{}
	r := rand.New(rand.NewSource(seed))

	p := make([]int, 256)
	for i := range p {
		p[i] = i
	}
	r.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })

	for i := range n.perm {
		n.perm[i] = p[i&255]
	}
	return n
}

func grad(hash int, x, y float64) float64 {
	h := hash & 7
	u, v := x, y
	if h >= 4 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

const (
	skew   = 0.3660254037844386  // (sqrt(3) - 1) / 2
	unskew = 0.21132486540518713 // (3 - sqrt(3)) / 6
)

// at returns simplex noise in [-1, 1].
func (n *noise) at(x, y float64) float64 {
	s := (x + y) * skew
	i := math.Floor(x + s)
	j := math.Floor(y + s)

	t := (i + j) * unskew
	x0 := x - (i - t)
	y0 := y - (j - t)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + unskew
	y1 := y0 - float64(j1) + unskew
	x2 := x0 - 1 + 2*unskew
	y2 := y0 - 1 + 2*unskew

	ii := int(i) & 255
	jj := int(j) & 255

	corner := func(dx, dy float64, hash int) float64 {
		c := 0.5 - dx*dx - dy*dy
		if c <= 0 {
			return 0
		}
		c *= c
		return c * c * grad(hash, dx, dy)
	}

	sum := corner(x0, y0, n.perm[ii+n.perm[jj]]) +
		corner(x1, y1, n.perm[ii+i1+n.perm[jj+j1]]) +
		corner(x2, y2, n.perm[ii+1+n.perm[jj+1]])
	return 70 * sum
}

// fractal sums octaves of noise and normalizes to [0, 1].
func (n *noise) fractal(x, y, freq float64, octaves int) float64 {
	var total, maxAmp float64
	amp := 1.0
	for o := 0; o < octaves; o++ {
		total += n.at(x*freq, y*freq) * amp
		maxAmp += amp
		freq *= 2
		amp *= 0.5
	}
	return (total/maxAmp + 1) / 2
}
