package searcher

import "math"

// uct scores a child by q/n + c*sqrt(ln(N)/n).
type uct struct {
	c   float64
	lnN float64
}

func newUCT(c float64, N int) uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return uct{c: c, lnN: math.Log(float64(N))}
}

func (u uct) evaluate(q float64, n int) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	return q/float64(n) + u.c*math.Sqrt(u.lnN/float64(n))
}

// puct scores a child by q/n + c*P*sqrt(N)/(1+n).
type puct struct {
	c     float64
	sqrtN float64
}

func newPUCT(c float64, N int) puct {
	return puct{c: c, sqrtN: math.Sqrt(float64(N))}
}

func (p puct) evaluate(q float64, n int, prior float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	return q/float64(n) + p.c*prior*p.sqrtN/float64(1+n)
}
