package kbsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
)

// Sheet column headers.
const (
	colID                = "id"
	colQuestionPrimary   = "Sual_ru"
	colQuestionSecondary = "Sual_az"
	colAnswerPrimary     = "Cavab_ru"
	colAnswerSecondary   = "Cavab_az"
	colProject           = "project"
)

// Parse reads a CSV sheet with a header row. Values are trimmed, blank lines skipped and
// rows without at least one question and one answer dropped (counted in dropped).
func Parse(r io.Reader) (records []kb.Record, dropped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("empty sheet")
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[h] = i
	}
	if _, ok := cols[colQuestionPrimary]; !ok {
		if _, ok := cols[colQuestionSecondary]; !ok {
			return nil, 0, fmt.Errorf("sheet has neither %s nor %s column", colQuestionPrimary, colQuestionSecondary)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		if isBlank(row) {
			continue
		}

		rec := kb.Record{
			ID:                field(row, colID),
			QuestionPrimary:   field(row, colQuestionPrimary),
			QuestionSecondary: field(row, colQuestionSecondary),
			AnswerPrimary:     field(row, colAnswerPrimary),
			AnswerSecondary:   field(row, colAnswerSecondary),
			Project:           field(row, colProject),
		}
		if !rec.Valid() {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
