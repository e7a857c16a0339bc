package tui

import (
	"fmt"
	"sort"
	"strings"

	"tweetsent/internal/classifier"
	"tweetsent/internal/domain"
	"tweetsent/internal/features"
	"tweetsent/internal/pipeline"
)

const (
	previewRows = 50
	topWords    = 20
	topTerms    = 5
)

func renderCorpus(c *domain.Corpus) string {
	if c == nil || len(c.Documents) == 0 {
		return "No corpus loaded."
	}
	counts := make(map[domain.Label]int)
	for _, d := range c.Documents {
		counts[d.Label]++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %d documents\n", c.Path, len(c.Documents))
	for _, l := range labels {
		fmt.Fprintf(&b, "  %s: %d\n", l, counts[domain.Label(l)])
	}
	b.WriteString("\n")
	for i, d := range c.Documents {
		if i == previewRows {
			fmt.Fprintf(&b, "... %d more\n", len(c.Documents)-previewRows)
			break
		}
		fmt.Fprintf(&b, "%4d  %s  %s\n", d.Row, labelStyle.Render(string(d.Label)), d.Text)
	}
	return b.String()
}

func renderPreprocessing(r *pipeline.Result) string {
	if r == nil {
		return "Preprocessing has not run."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d documents, %d distinct tokens", len(r.Rows), len(r.Terms))
	if r.CacheHit {
		b.WriteString(" (stemming cached)")
	}
	b.WriteString("\n\nMost frequent words after cleaning:\n")
	for i, wc := range r.WordCounts {
		if i == topWords {
			break
		}
		fmt.Fprintf(&b, "  %-20s %d\n", wc.Word, wc.Count)
	}
	b.WriteString("\n")
	for i, row := range r.Rows {
		if i == previewRows {
			fmt.Fprintf(&b, "... %d more\n", len(r.Rows)-previewRows)
			break
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("#%d", i+1)), row.Original)
		fmt.Fprintf(&b, "  cleaned:   %s\n", row.Cleaned)
		fmt.Fprintf(&b, "  slang:     %s\n", row.SlangFree)
		fmt.Fprintf(&b, "  tokens:    %s\n", strings.Join(row.Tokens, " | "))
		fmt.Fprintf(&b, "  stemmed:   %s\n", strings.Join(row.Stemmed, " | "))
		fmt.Fprintf(&b, "  filtered:  %s\n", strings.Join(row.Filtered, " | "))
		fmt.Fprintf(&b, "  final:     %s\n\n", row.Final)
	}
	return b.String()
}

func renderTFIDF(ex *features.Extraction) string {
	if ex == nil {
		return "Feature extraction has not run."
	}
	var b strings.Builder
	rows, cols := ex.Train.Dims()
	testRows, _ := ex.Test.Dims()
	fmt.Fprintf(&b, "Vocabulary: %d terms (training partition only)\n", cols)
	fmt.Fprintf(&b, "Train: %d documents, %d non-zero weights\n", rows, ex.Train.NNZ())
	fmt.Fprintf(&b, "Test:  %d documents, %d non-zero weights\n\n", testRows, ex.Test.NNZ())

	vocab := ex.Vectorizer.Vocabulary()
	rare := append([]string(nil), vocab...)
	sort.SliceStable(rare, func(a, c int) bool { return ex.Vectorizer.IDF(rare[a]) > ex.Vectorizer.IDF(rare[c]) })
	b.WriteString("Highest IDF terms:\n")
	for k := 0; k < len(rare) && k < topWords; k++ {
		fmt.Fprintf(&b, "  %-20s %.4f\n", rare[k], ex.Vectorizer.IDF(rare[k]))
	}
	b.WriteString("\n")
	for i := 0; i < rows && i < previewRows; i++ {
		type weight struct {
			term string
			v    float64
		}
		var ws []weight
		ex.Train.DoRowNonZero(i, func(_, j int, v float64) { ws = append(ws, weight{vocab[j], v}) })
		sort.Slice(ws, func(a, c int) bool { return ws[a].v > ws[c].v })
		parts := make([]string, 0, topTerms)
		for k := 0; k < len(ws) && k < topTerms; k++ {
			parts = append(parts, fmt.Sprintf("%s=%.3f", ws[k].term, ws[k].v))
		}
		fmt.Fprintf(&b, "%4d  %s  %s\n", i+1, labelStyle.Render(string(ex.Split.TrainLabel[i])), strings.Join(parts, " "))
	}
	return b.String()
}

func renderReport(r *classifier.Report) string {
	if r == nil {
		return "Evaluation has not run."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Train documents: %d\nTest documents:  %d\n", r.TrainCount, r.TestCount)
	fmt.Fprintf(&b, "Accuracy: %.4f\n\n", r.Accuracy)
	b.WriteString(r.String())
	b.WriteString("\nConfusion matrix (rows = true, columns = predicted)\n")
	b.WriteString(r.ConfusionString())
	return b.String()
}

func renderPrediction(p *domain.Prediction) string {
	if p == nil {
		return "Type a tweet below and press Enter to classify it."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Input:        %s\n", p.Row.Original)
	fmt.Fprintf(&b, "Preprocessed: %s\n\n", p.Row.Final)
	fmt.Fprintf(&b, "Sentiment: %s\n\n", labelStyle.Render(string(p.Label)))
	labels := make([]string, 0, len(p.Probabilities))
	for l := range p.Probabilities {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)
	for _, l := range labels {
		fmt.Fprintf(&b, "  %-12s %.4f\n", l, p.Probabilities[domain.Label(l)])
	}
	return b.String()
}
