package services

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func nan() float64         { return math.NaN() }
func isNaN(v float64) bool { return math.IsNaN(v) }

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !isNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ZeroFill replaces missing values with 0, the general cleaning policy.
func ZeroFill(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		if isNaN(v) {
			out[i] = 0
		} else {
			out[i] = v
		}
	}
	return out
}

// MeanImpute replaces missing values with the column mean, the advanced
// analysis policy. An all-missing column fills with 0.
func MeanImpute(xs []float64) []float64 {
	valid := dropNaN(xs)
	m := 0.0
	if len(valid) > 0 {
		m = stat.Mean(valid, nil)
	}
	out := make([]float64, len(xs))
	for i, v := range xs {
		if isNaN(v) {
			out[i] = m
		} else {
			out[i] = v
		}
	}
	return out
}

func meanOf(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

func stdOf(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

// quantileOf computes a linearly interpolated quantile over the non-missing
// values.
func quantileOf(xs []float64, q float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.LinInterp, sorted, nil)
}

func medianOf(xs []float64) float64 {
	return quantileOf(xs, 0.5)
}

func skewOf(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) < 3 {
		return math.NaN()
	}
	return stat.Skew(xs, nil)
}

// centralMoment computes the k-th biased central moment.
func centralMoment(xs []float64, k float64) float64 {
	m := stat.Mean(xs, nil)
	sum := 0.0
	for _, v := range xs {
		sum += math.Pow(v-m, k)
	}
	return sum / float64(len(xs))
}

// PearsonTest computes the Pearson correlation of two equal-length columns
// and the two-sided p-value from the Student's t distribution.
func PearsonTest(x, y []float64) (r, p float64) {
	n := len(x)
	r = stat.Correlation(x, y, nil)
	if n < 3 || isNaN(r) {
		return r, math.NaN()
	}
	if r >= 1 || r <= -1 {
		return r, 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	td := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return r, 2 * td.Survival(math.Abs(t))
}

// SpearmanCorrelation is the Pearson correlation of the rank-transformed
// columns, with average ranks for ties.
func SpearmanCorrelation(x, y []float64) float64 {
	return stat.Correlation(ranks(x), ranks(y), nil)
}

func ranks(xs []float64) []float64 {
	n := len(xs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return xs[order[a]] < xs[order[b]] })

	rk := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && xs[order[j+1]] == xs[order[i]] {
			j++
		}
		// average rank over the tie run, 1-based
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			rk[order[k]] = avg
		}
		i = j + 1
	}
	return rk
}

// NormalTest is the D'Agostino-Pearson K-squared omnibus normality test,
// combining the skewness and kurtosis z-scores. Requires at least 8
// observations; below that the result is NaN.
func NormalTest(xs []float64) (statistic, p float64) {
	xs = dropNaN(xs)
	n := float64(len(xs))
	if n < 8 {
		return math.NaN(), math.NaN()
	}

	m2 := centralMoment(xs, 2)
	if m2 == 0 {
		return math.NaN(), math.NaN()
	}
	b1 := centralMoment(xs, 3) / math.Pow(m2, 1.5)
	b2 := centralMoment(xs, 4) / (m2 * m2)

	zs := skewZ(b1, n)
	zk := kurtosisZ(b2, n)
	k2 := zs*zs + zk*zk

	chi2 := distuv.ChiSquared{K: 2}
	return k2, chi2.Survival(k2)
}

func skewZ(b1, n float64) float64 {
	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) /
		((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		y = 1
	}
	return delta * math.Log(y/alpha+math.Sqrt((y/alpha)*(y/alpha)+1))
}

func kurtosisZ(b2, n float64) float64 {
	e := 3 * (n - 1) / (n + 1)
	varB2 := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(varB2)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)
	return (term1 - term2) / math.Sqrt(2/(9*a))
}

// Standardize scales each column to zero mean and unit variance (population
// standard deviation). Constant columns stay zero.
func Standardize(cols [][]float64) [][]float64 {
	out := make([][]float64, len(cols))
	for i, col := range cols {
		m := stat.Mean(col, nil)
		variance := centralMoment(col, 2)
		sd := math.Sqrt(variance)
		scaled := make([]float64, len(col))
		for j, v := range col {
			if sd > 0 {
				scaled[j] = (v - m) / sd
			}
		}
		out[i] = scaled
	}
	return out
}

// rowsFromColumns transposes column-oriented features into row vectors.
func rowsFromColumns(cols [][]float64) [][]float64 {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil
	}
	rows := make([][]float64, len(cols[0]))
	for i := range rows {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		rows[i] = row
	}
	return rows
}

// KMeans clusters the row vectors into k groups using Lloyd's algorithm with
// seeded random initialization from the data points. Returns per-row
// assignments, the final centers, and the inertia (summed squared distance
// to the assigned center).
func KMeans(rows [][]float64, k int, seed int64) (assignments []int, centers [][]float64, inertia float64) {
	n := len(rows)
	if n == 0 || k <= 0 {
		return nil, nil, 0
	}
	if k > n {
		k = n
	}
	dims := len(rows[0])
	rng := rand.New(rand.NewSource(seed))

	centers = make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centers[i] = append([]float64(nil), rows[idx]...)
	}

	assignments = make([]int, n)
	const maxIterations = 100
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, row := range rows {
			best, bestDist := 0, math.Inf(1)
			for c, center := range centers {
				if d := squaredDistance(row, center); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for i, row := range rows {
			floats.Add(sums[assignments[i]], row)
			counts[assignments[i]]++
		}
		for c := range centers {
			if counts[c] == 0 {
				// re-seed an empty cluster at a random point
				centers[c] = append([]float64(nil), rows[rng.Intn(n)]...)
				continue
			}
			for d := 0; d < dims; d++ {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	for i, row := range rows {
		inertia += squaredDistance(row, centers[assignments[i]])
	}
	return assignments, centers, inertia
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
