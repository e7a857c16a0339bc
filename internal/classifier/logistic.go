// Package classifier trains and evaluates an L2-regularized logistic
// regression model on TF-IDF features.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"tweetsent/internal/domain"
)

// Config is the hyperparameter record of the trainer.
type Config struct {
	// C is the inverse regularization strength. Smaller values regularize more.
	C            float64 `json:"c"`
	MaxIter      int     `json:"max_iter"`
	Tol          float64 `json:"tol"`
	FitIntercept bool    `json:"fit_intercept"`
}

// DefaultConfig uses strong regularization.
func DefaultConfig() Config {
	return Config{C: 0.01, MaxIter: 1000, Tol: 1e-6, FitIntercept: true}
}

func (c Config) validate() error {
	if c.C <= 0 || math.IsNaN(c.C) || math.IsInf(c.C, 0) {
		return fmt.Errorf("classifier: C must be positive and finite, got %v", c.C)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("classifier: max_iter must be positive, got %d", c.MaxIter)
	}
	if c.Tol < 0 {
		return fmt.Errorf("classifier: tol must not be negative, got %v", c.Tol)
	}
	return nil
}

// Model is a trained classifier. Two classes share one weight vector whose
// positive side is Classes[1]; more classes are trained one-vs-rest.
type Model struct {
	Classes     []domain.Label `json:"classes"`
	Coef        [][]float64    `json:"coef"`
	Intercept   []float64      `json:"intercept"`
	NumFeatures int            `json:"num_features"`
	Iterations  []int          `json:"iterations"`
	Converged   bool           `json:"converged"`
	TrainCount  int            `json:"train_count"`
	Config      Config         `json:"config"`
	// Vocabulary is the fingerprint of the feature columns the model was
	// trained on. Set by the caller that owns the vectorizer.
	Vocabulary  string         `json:"vocabulary,omitempty"`
}

// Train fits a model on x (documents by features) and labels y.
func Train(x mat.Matrix, y []domain.Label, cfg Config) (*Model, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n, d := x.Dims()
	if n != len(y) {
		return nil, &domain.SchemaError{Reason: fmt.Sprintf("%d feature rows but %d labels", n, len(y))}
	}
	if d == 0 {
		return nil, &domain.InsufficientDataError{Reason: "feature matrix has no columns"}
	}
	classes := uniqueLabels(y)
	if len(classes) < 2 {
		return nil, &domain.InsufficientDataError{Reason: fmt.Sprintf("training needs at least 2 classes, found %d", len(classes))}
	}

	m := &Model{Classes: classes, NumFeatures: d, TrainCount: n, Config: cfg, Converged: true}
	problems := classes[1:]
	if len(classes) > 2 {
		problems = classes
	}
	for _, positive := range problems {
		target := make([]float64, n)
		for i, l := range y {
			if l == positive {
				target[i] = 1
			}
		}
		w, b, iters, ok := fitBinary(x, target, cfg)
		m.Coef = append(m.Coef, w)
		m.Intercept = append(m.Intercept, b)
		m.Iterations = append(m.Iterations, iters)
		m.Converged = m.Converged && ok
	}
	return m, nil
}

// fitBinary minimizes mean log-loss plus (1/(2Cn))||w||^2 by gradient
// descent with a fixed 1/L step.
func fitBinary(x mat.Matrix, target []float64, cfg Config) ([]float64, float64, int, bool) {
	n, d := x.Dims()
	lambda := 1 / (cfg.C * float64(n))

	maxNorm := 0.0
	for i := 0; i < n; i++ {
		s := 0.0
		eachNonZero(x, i, func(_ int, v float64) { s += v * v })
		maxNorm = math.Max(maxNorm, s)
	}
	if cfg.FitIntercept {
		maxNorm++
	}
	step := 1 / (0.25*maxNorm + lambda)

	w := mat.NewVecDense(d, nil)
	grad := mat.NewVecDense(d, nil)
	margin := make([]float64, n)
	resid := make([]float64, n)
	b := 0.0
	for iter := 1; iter <= cfg.MaxIter; iter++ {
		decision(margin, x, w.RawVector().Data, b)
		for i := range margin {
			resid[i] = (sigmoid(margin[i]) - target[i]) / float64(n)
		}
		mulTrans(grad, x, resid)
		grad.AddScaledVec(grad, lambda, w)
		gb := 0.0
		if cfg.FitIntercept {
			gb = floats.Sum(resid)
		}

		if math.Max(mat.Norm(grad, math.Inf(1)), math.Abs(gb)) <= cfg.Tol {
			return copyVec(w), b, iter, true
		}
		w.AddScaledVec(w, -step, grad)
		b -= step * gb
	}
	return copyVec(w), b, cfg.MaxIter, false
}

// DecisionFunction returns the signed distance of every row to each
// separating hyperplane (one column per binary problem).
func (m *Model) DecisionFunction(x mat.Matrix) (*mat.Dense, error) {
	n, d := x.Dims()
	if d != m.NumFeatures {
		return nil, fmt.Errorf("classifier: model has %d features, input has %d", m.NumFeatures, d)
	}
	if len(m.Coef) == 0 {
		return nil, errors.New("classifier: model is not trained")
	}
	if n == 0 {
		return &mat.Dense{}, nil
	}
	out := mat.NewDense(n, len(m.Coef), nil)
	col := make([]float64, n)
	for k, w := range m.Coef {
		decision(col, x, w, m.Intercept[k])
		out.SetCol(k, col)
	}
	return out, nil
}

// PredictProba returns class probabilities, one column per entry of Classes.
func (m *Model) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	scores, err := m.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	n, _ := x.Dims()
	if n == 0 {
		return &mat.Dense{}, nil
	}
	proba := mat.NewDense(n, len(m.Classes), nil)
	for i := 0; i < n; i++ {
		if len(m.Coef) == 1 {
			p := sigmoid(scores.At(i, 0))
			proba.Set(i, 0, 1-p)
			proba.Set(i, 1, p)
			continue
		}
		row := proba.RawRowView(i)
		for k := range row {
			row[k] = sigmoid(scores.At(i, k))
		}
		floats.Scale(1/floats.Sum(row), row)
	}
	return proba, nil
}

// Predict returns the most likely label for every row.
func (m *Model) Predict(x mat.Matrix) ([]domain.Label, error) {
	scores, err := m.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	n, _ := x.Dims()
	out := make([]domain.Label, n)
	for i := 0; i < n; i++ {
		if len(m.Coef) == 1 {
			if scores.At(i, 0) > 0 {
				out[i] = m.Classes[1]
			} else {
				out[i] = m.Classes[0]
			}
			continue
		}
		out[i] = m.Classes[floats.MaxIdx(scores.RawRowView(i))]
	}
	return out, nil
}

func decision(dst []float64, x mat.Matrix, w []float64, b float64) {
	for i := range dst {
		s := b
		eachNonZero(x, i, func(j int, v float64) { s += v * w[j] })
		dst[i] = s
	}
}

func mulTrans(dst *mat.VecDense, x mat.Matrix, r []float64) {
	dst.Zero()
	raw := dst.RawVector().Data
	for i, ri := range r {
		if ri == 0 {
			continue
		}
		eachNonZero(x, i, func(j int, v float64) { raw[j] += v * ri })
	}
}

// eachNonZero visits the non-zero entries of row i, using the sparse
// iterator when x provides one.
func eachNonZero(x mat.Matrix, i int, fn func(j int, v float64)) {
	if nz, ok := x.(mat.RowNonZeroDoer); ok {
		nz.DoRowNonZero(i, func(_, j int, v float64) { fn(j, v) })
		return
	}
	_, d := x.Dims()
	for j := 0; j < d; j++ {
		if v := x.At(i, j); v != 0 {
			fn(j, v)
		}
	}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func copyVec(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	copy(out, v.RawVector().Data)
	return out
}

func uniqueLabels(labels []domain.Label) []domain.Label {
	seen := make(map[domain.Label]struct{})
	var out []domain.Label
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
