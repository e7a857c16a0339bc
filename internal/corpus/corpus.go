// Package corpus reads the labeled tweet table.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tweetsent/internal/domain"
)

// Options selects the delimiter and the columns holding text and label.
type Options struct {
	Delimiter   rune
	TextColumn  string
	LabelColumn string
}

// Load reads the corpus at path. Unreadable files are a ResourceLoadError;
// a missing column or short row is a SchemaError.
func Load(path string, opts Options) (*domain.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ResourceLoadError{Resource: "corpus", Path: path, Err: err}
	}
	defer f.Close()

	docs, err := Parse(f, opts)
	if err != nil {
		var se *domain.SchemaError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &domain.ResourceLoadError{Resource: "corpus", Path: path, Err: err}
	}
	return &domain.Corpus{Path: path, Documents: docs}, nil
}

// Parse reads a header row followed by one document per row.
// Column names are matched case-insensitively.
func Parse(r io.Reader, opts Options) ([]domain.Document, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.SchemaError{Reason: "corpus is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	textIdx, err := column(header, opts.TextColumn)
	if err != nil {
		return nil, err
	}
	labelIdx, err := column(header, opts.LabelColumn)
	if err != nil {
		return nil, err
	}
	need := max(textIdx, labelIdx) + 1

	var docs []domain.Document
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < need {
			return nil, &domain.SchemaError{Reason: fmt.Sprintf("line %d has %d fields, need %d", line, len(record), need)}
		}
		label := strings.TrimSpace(record[labelIdx])
		if label == "" {
			return nil, &domain.SchemaError{Reason: fmt.Sprintf("line %d has an empty label", line)}
		}
		docs = append(docs, domain.Document{
			Row:   len(docs) + 1,
			Text:  record[textIdx],
			Label: domain.Label(label),
		})
	}
	return docs, nil
}

func column(header []string, name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\uFEFF")
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, nil
		}
	}
	return -1, &domain.SchemaError{Reason: fmt.Sprintf("missing column %q (have %s)", name, strings.Join(header, ", "))}
}
