package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Lego1st/quizzess/internal/domain"
)

const listSeparator = "/"

// Column is one spreadsheet column. It accepts a JSON array or an object
// keyed by row number ({"0": ..., "1": ...}), the shape dataframe exports use.
type Column []json.RawMessage

func (c *Column) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}
	if data[0] == '[' {
		var cells []json.RawMessage
		if err := json.Unmarshal(data, &cells); err != nil {
			return err
		}
		*c = cells
		return nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return err
	}
	// Keys must be exactly 0..n-1, so the column never outgrows the payload.
	cells := make([]json.RawMessage, len(keyed))
	seen := make([]bool, len(keyed))
	for key, cell := range keyed {
		row, err := strconv.Atoi(key)
		if err != nil || row < 0 {
			return fmt.Errorf("column key %q is not a row number", key)
		}
		if row >= len(keyed) || seen[row] {
			return errors.New("row keys are not contiguous")
		}
		seen[row] = true
		cells[row] = cell
	}
	*c = cells
	return nil
}

// Table is the column-oriented question sheet returned by the upload endpoint.
type Table struct {
	Type      Column `json:"Type"`
	Content   Column `json:"Content"`
	Options   Column `json:"Options"`
	Matchings Column `json:"Matchings"`
	Answer    Column `json:"Answer"`
}

// Rows is the number of rows, taken from the Type column.
func (t Table) Rows() int { return len(t.Type) }

// UnmarshalJSON decodes each column, reporting a malformed one as a
// *domain.DecodeError naming that column.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      json.RawMessage `json:"Type"`
		Content   json.RawMessage `json:"Content"`
		Options   json.RawMessage `json:"Options"`
		Matchings json.RawMessage `json:"Matchings"`
		Answer    json.RawMessage `json:"Answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	columns := []struct {
		name string
		raw  json.RawMessage
		dst  *Column
	}{
		{"Type", raw.Type, &t.Type},
		{"Content", raw.Content, &t.Content},
		{"Options", raw.Options, &t.Options},
		{"Matchings", raw.Matchings, &t.Matchings},
		{"Answer", raw.Answer, &t.Answer},
	}
	for _, c := range columns {
		if err := c.dst.UnmarshalJSON(c.raw); err != nil {
			return &domain.DecodeError{Row: -1, Column: c.name, Reason: err.Error()}
		}
	}
	return nil
}

type namedColumn struct {
	name  string
	cells Column
}

func (t Table) textColumns() []namedColumn {
	return []namedColumn{
		{"Content", t.Content},
		{"Options", t.Options},
		{"Matchings", t.Matchings},
		{"Answer", t.Answer},
	}
}

type uploadResponse struct {
	Quiz *Table `json:"quizz"`
}

// ParseUpload reads the upload endpoint's response body.
func ParseUpload(body []byte) (Table, error) {
	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		var derr *domain.DecodeError
		if errors.As(err, &derr) {
			return Table{}, derr
		}
		return Table{}, &domain.DecodeError{Row: -1, Column: "body", Reason: err.Error()}
	}
	if resp.Quiz == nil {
		return Table{}, &domain.DecodeError{Row: -1, Column: "quizz", Reason: "missing"}
	}
	return *resp.Quiz, nil
}

// Decode converts an upload table into draft questions. Row i becomes the
// question with index i.
//
// Choice answers are resolved to the position of the first option with the
// same text, so repeated option text always resolves to its first occurrence.
func Decode(t Table) ([]domain.Question, error) {
	n := t.Rows()
	for _, c := range t.textColumns() {
		if len(c.cells) != n {
			return nil, &domain.DecodeError{Row: -1, Column: c.name, Reason: fmt.Sprintf("has %d rows, Type has %d", len(c.cells), n)}
		}
	}

	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		q, err := decodeRow(t, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func decodeRow(t Table, i int) (domain.Question, error) {
	code, err := cellInt(t.Type[i])
	if err != nil {
		return domain.Question{}, &domain.DecodeError{Row: i, Column: "Type", Reason: err.Error()}
	}
	typ := domain.QuestionType(code)
	if !typ.Valid() {
		return domain.Question{}, &domain.DecodeError{Row: i, Column: "Type", Reason: fmt.Sprintf("%d is not one of 0, 1, 2, 3", code)}
	}

	cells := make(map[string]string, 4)
	for _, c := range t.textColumns() {
		s, err := cellString(c.cells[i])
		if err != nil {
			return domain.Question{}, &domain.DecodeError{Row: i, Column: c.name, Reason: err.Error()}
		}
		cells[c.name] = s
	}

	options := splitList(cells["Options"])
	answer := splitList(cells["Answer"])
	q := domain.Question{
		Index:     i,
		Content:   cells["Content"],
		Type:      typ,
		Options:   options,
		Matchings: splitList(cells["Matchings"]),
	}

	switch {
	case typ.IsChoice():
		q.Correct = make([]int, len(answer))
		for j, a := range answer {
			pos := indexOf(options, a)
			if pos < 0 {
				return domain.Question{}, &domain.DecodeError{Row: i, Column: "Answer", Reason: fmt.Sprintf("%q is not one of the options", a)}
			}
			q.Correct[j] = pos
		}
	case typ == domain.Matching:
		q.Options = answer
		q.Accepted = copyStrings(answer)
	default:
		q.Accepted = answer
	}
	return q, nil
}

// splitList splits a slash-delimited cell; an empty cell is an empty list.
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, listSeparator)
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}

func cellString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f', '[', '{':
		return "", fmt.Errorf("unexpected value %s", raw)
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return "", fmt.Errorf("unexpected value %s", raw)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func cellInt(raw json.RawMessage) (int, error) {
	s, err := cellString(raw)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}
