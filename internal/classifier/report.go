package classifier

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"tweetsent/internal/domain"
)

// ClassMetrics holds precision, recall and F1 for one class or average.
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is the evaluation of a model on held-out data. Confusion rows are
// true classes and columns predicted classes, both in Labels order.
type Report struct {
	Accuracy    float64        `json:"accuracy"`
	Labels      []domain.Label `json:"labels"`
	PerClass    []ClassMetrics `json:"per_class"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Confusion   [][]int        `json:"confusion"`
	TrainCount  int            `json:"train_count"`
	TestCount   int            `json:"test_count"`
}

// Evaluate predicts x with m and scores the result against y.
func Evaluate(m *Model, x mat.Matrix, y []domain.Label) (*Report, error) {
	pred, err := m.Predict(x)
	if err != nil {
		return nil, err
	}
	r, err := NewReport(y, pred)
	if err != nil {
		return nil, err
	}
	r.TrainCount = m.TrainCount
	return r, nil
}

// NewReport compares true and predicted labels. The label set is the
// sorted union of both.
func NewReport(yTrue, yPred []domain.Label) (*Report, error) {
	if len(yTrue) != len(yPred) {
		return nil, &domain.SchemaError{Reason: fmt.Sprintf("%d true labels but %d predictions", len(yTrue), len(yPred))}
	}
	if len(yTrue) == 0 {
		return nil, &domain.InsufficientDataError{Reason: "no test documents to evaluate"}
	}
	labels := uniqueLabels(append(append([]domain.Label{}, yTrue...), yPred...))
	index := make(map[domain.Label]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	confusion := make([][]int, len(labels))
	for i := range confusion {
		confusion[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range yTrue {
		t, p := index[yTrue[i]], index[yPred[i]]
		confusion[t][p]++
		if t == p {
			correct++
		}
	}

	r := &Report{
		Accuracy:  float64(correct) / float64(len(yTrue)),
		Labels:    labels,
		Confusion: confusion,
		TestCount: len(yTrue),
	}
	total := len(yTrue)
	r.MacroAvg = ClassMetrics{Label: "macro avg", Support: total}
	r.WeightedAvg = ClassMetrics{Label: "weighted avg", Support: total}
	for k, l := range labels {
		tp := confusion[k][k]
		support, predicted := 0, 0
		for j := range labels {
			support += confusion[k][j]
			predicted += confusion[j][k]
		}
		cm := ClassMetrics{
			Label:     string(l),
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		r.PerClass = append(r.PerClass, cm)

		n := float64(len(labels))
		wt := float64(support) / float64(total)
		r.MacroAvg.Precision += cm.Precision / n
		r.MacroAvg.Recall += cm.Recall / n
		r.MacroAvg.F1 += cm.F1 / n
		r.WeightedAvg.Precision += cm.Precision * wt
		r.WeightedAvg.Recall += cm.Recall * wt
		r.WeightedAvg.F1 += cm.F1 * wt
	}
	return r, nil
}

// ratio returns a/b, or 0 when b is 0.
func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// String renders the familiar precision/recall/f1-score/support table.
func (r *Report) String() string {
	width := len("weighted avg")
	for _, l := range r.Labels {
		width = max(width, len(l))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.PerClass {
		writeMetrics(&b, width, c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.TestCount)
	writeMetrics(&b, width, r.MacroAvg)
	writeMetrics(&b, width, r.WeightedAvg)
	return b.String()
}

func writeMetrics(b *strings.Builder, width int, c ClassMetrics) {
	fmt.Fprintf(b, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
}

// ConfusionString renders the confusion matrix with true classes as rows.
func (r *Report) ConfusionString() string {
	width := len("true\\pred")
	for _, l := range r.Labels {
		width = max(width, len(l))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", width, "true\\pred")
	for _, l := range r.Labels {
		fmt.Fprintf(&b, " %*s", width, l)
	}
	b.WriteString("\n")
	for i, l := range r.Labels {
		fmt.Fprintf(&b, "%-*s", width, l)
		for _, v := range r.Confusion[i] {
			fmt.Fprintf(&b, " %*d", width, v)
		}
		b.WriteString("\n")
	}
	return b.String()
}
