package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"tweetsent/internal/domain"
)

// TableHeader is the column layout of the preprocessing result table.
var TableHeader = []string{"text", "cleaned", "slang_removed", "tokenized", "stemmed", "stopword_removed", "final", "label"}

// WriteTable writes one row per document with the output of every stage.
// Token columns are encoded as JSON arrays.
func WriteTable(w io.Writer, rows []domain.PreprocessedRow, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(TableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		tokens, err := tokenList(r.Tokens)
		if err != nil {
			return err
		}
		stemmed, err := tokenList(r.Stemmed)
		if err != nil {
			return err
		}
		filtered, err := tokenList(r.Filtered)
		if err != nil {
			return err
		}
		record := []string{r.Original, r.Cleaned, r.SlangFree, tokens, stemmed, filtered, r.Final, string(r.Label)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveTable writes the table to path, creating directories as needed.
func SaveTable(path string, rows []domain.PreprocessedRow, delimiter rune) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, rows, delimiter); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func tokenList(tokens []string) (string, error) {
	if tokens == nil {
		tokens = []string{}
	}
	b, err := json.Marshal(tokens)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
