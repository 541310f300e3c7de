package lookalike

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultConditionLimit is the largest covariance condition number accepted
// for Mahalanobis scoring before a category falls back to Euclidean.
const DefaultConditionLimit = 1e10

// categoryModel holds the normalization statistics and covariance
// factorization of one category, computed once over the whole dataset.
type categoryModel struct {
	mean []float64
	std  []float64
	chol *mat.Cholesky
}

// newCategoryModel fits z-score statistics to raw rows (NaN = missing) and
// factorizes the covariance of the normalized rows.  chol stays nil when the
// covariance cannot be estimated or is ill-conditioned.
func newCategoryModel(raw [][]float64, width int, condLimit float64) *categoryModel {
	m := &categoryModel{mean: make([]float64, width), std: make([]float64, width)}
	col := make([]float64, 0, len(raw))
	for j := 0; j < width; j++ {
		col = col[:0]
		for _, row := range raw {
			if !math.IsNaN(row[j]) {
				col = append(col, row[j])
			}
		}
		switch len(col) {
		case 0:
		case 1:
			m.mean[j] = col[0]
		default:
			m.mean[j], m.std[j] = stat.MeanStdDev(col, nil)
		}
	}

	if len(raw) < 2 || width == 0 {
		return m
	}
	data := make([]float64, 0, len(raw)*width)
	for _, row := range raw {
		data = append(data, m.normalize(row)...)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, mat.NewDense(len(raw), width, data), nil)

	var chol mat.Cholesky
	if ok := chol.Factorize(&cov); !ok {
		return m
	}
	if c := chol.Cond(); math.IsNaN(c) || math.IsInf(c, 0) || c > condLimit {
		return m
	}
	m.chol = &chol
	return m
}

// normalize z-scores raw.  Missing values and zero-deviation features map to 0.
func (m *categoryModel) normalize(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for j, v := range raw {
		sd := m.std[j]
		if math.IsNaN(v) || sd == 0 || math.IsNaN(sd) {
			continue
		}
		out[j] = (v - m.mean[j]) / sd
	}
	return out
}

func (m *categoryModel) similarity(alg Algorithm, a, b []float64) float64 {
	switch alg {
	case AlgorithmCosine:
		return cosineSimilarity(a, b)
	case AlgorithmMahalanobis:
		if s, ok := m.mahalanobisSimilarity(a, b); ok {
			return s
		}
		return euclideanSimilarity(a, b)
	default:
		return euclideanSimilarity(a, b)
	}
}

// distanceToSimilarity rebases a distance over n features onto (0, 1].
func distanceToSimilarity(d float64, n int) float64 {
	if n == 0 {
		return 1
	}
	return 1 / (1 + d/math.Sqrt(float64(n)))
}

func euclideanSimilarity(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return distanceToSimilarity(math.Sqrt(sum), len(a))
}

// cosineSimilarity maps the cosine of the angle between a and b from [-1, 1]
// onto [0, 1].  Identical vectors score 1; a zero vector against a non-zero
// one scores 0.5.
func cosineSimilarity(a, b []float64) float64 {
	identical := true
	for i := range a {
		if a[i] != b[i] {
			identical = false
			break
		}
	}
	if identical {
		return 1
	}
	va, vb := mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b)
	na, nb := math.Sqrt(mat.Dot(va, va)), math.Sqrt(mat.Dot(vb, vb))
	if na == 0 || nb == 0 {
		return 0.5
	}
	cos := mat.Dot(va, vb) / (na * nb)
	return math.Max(0, math.Min(1, (cos+1)/2))
}

func (m *categoryModel) mahalanobisSimilarity(a, b []float64) (float64, bool) {
	if m.chol == nil || len(a) == 0 {
		return 0, false
	}
	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	dv := mat.NewVecDense(len(diff), diff)
	var x mat.VecDense
	if err := m.chol.SolveVecTo(&x, dv); err != nil {
		return 0, false
	}
	d2 := mat.Dot(dv, &x)
	if math.IsNaN(d2) || d2 < 0 {
		return 0, false
	}
	return distanceToSimilarity(math.Sqrt(d2), len(a)), true
}

//Personal.AI order the ending
