package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType is the numeric question kind used by the editor and the upload table.
type QuestionType int

const (
	SingleChoice QuestionType = iota
	MultipleChoice
	FillBlank
	Matching
)

var questionTypeLabels = [...]string{"si", "mu", "fi", "ma"}

var questionTypeNames = [...]string{
	"Single choice",
	"Multiple choice",
	"Filling in the blank",
	"Matching",
}

// Valid reports whether t is one of the four known kinds.
func (t QuestionType) Valid() bool {
	return t >= SingleChoice && t <= Matching
}

// IsChoice reports whether answers are tracked as positions into Options.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice
}

// Label returns the wire label ("si", "mu", "fi", "ma").
func (t QuestionType) Label() string {
	if !t.Valid() {
		return ""
	}
	return questionTypeLabels[t]
}

// Name returns the human-readable type name.
func (t QuestionType) Name() string {
	if !t.Valid() {
		return fmt.Sprintf("QuestionType(%d)", int(t))
	}
	return questionTypeNames[t]
}

func (t QuestionType) String() string {
	return t.Name()
}

// ParseQuestionType maps a wire label back to its numeric kind.
func ParseQuestionType(label string) (QuestionType, error) {
	for i, l := range questionTypeLabels {
		if l == label {
			return QuestionType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQuestionType, label)
}

// EntryState tags a draft question as live or soft-deleted.
type EntryState int

const (
	Active EntryState = iota
	Deleted
)

// Question is the editable shape of one quiz question.
//
// For SingleChoice and MultipleChoice the answer is Correct (positions into
// Options). For FillBlank and Matching it is Accepted (literal strings).
type Question struct {
	Index     int
	Content   string
	Type      QuestionType
	Options   []string
	Matchings []string
	Correct   []int
	Accepted  []string
}

// SlotCount is the number of option inputs the editor renders for q.
func (q Question) SlotCount() int {
	n := 4
	if len(q.Options) > n {
		n = len(q.Options)
	}
	answers := len(q.Accepted)
	if q.Type.IsChoice() {
		answers = len(q.Correct)
	}
	if answers > n {
		n = answers
	}
	return n
}

type questionJSON struct {
	Index     int             `json:"index"`
	Content   string          `json:"content"`
	Type      QuestionType    `json:"type"`
	Options   []string        `json:"options"`
	Matchings []string        `json:"matchings"`
	Answer    json.RawMessage `json:"answer"`
}

// MarshalJSON emits the editor shape, where "answer" holds option positions
// for choice questions and literal strings otherwise.
func (q Question) MarshalJSON() ([]byte, error) {
	var answer any = nonNil(q.Accepted)
	if q.Type.IsChoice() {
		answer = nonNilInts(q.Correct)
	}
	raw, err := json.Marshal(answer)
	if err != nil {
		return nil, err
	}
	return json.Marshal(questionJSON{
		Index:     q.Index,
		Content:   q.Content,
		Type:      q.Type,
		Options:   nonNil(q.Options),
		Matchings: nonNil(q.Matchings),
		Answer:    raw,
	})
}

// UnmarshalJSON reads the editor shape produced by MarshalJSON.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Question{
		Index:     raw.Index,
		Content:   raw.Content,
		Type:      raw.Type,
		Options:   nonNil(raw.Options),
		Matchings: nonNil(raw.Matchings),
	}
	if len(raw.Answer) == 0 || string(raw.Answer) == "null" {
		return nil
	}
	if q.Type.IsChoice() {
		return json.Unmarshal(raw.Answer, &q.Correct)
	}
	return json.Unmarshal(raw.Answer, &q.Accepted)
}

// Draft is a point-in-time copy of a quiz being authored.
type Draft struct {
	Title     string
	Brief     string
	Category  string
	Rating    int
	Shuffle   bool
	Questions []Question
	States    []EntryState // parallel to Questions
}

// Payload is the create-quiz request body.
type Payload struct {
	Title     string            `json:"title"`
	Brief     string            `json:"brief"`
	Category  int               `json:"category"`
	Rating    int               `json:"rating"`
	Shuffle   bool              `json:"shuffle"`
	Questions []PayloadQuestion `json:"questions"`
}

// PayloadQuestion transmits answers as option text and the type as its label.
type PayloadQuestion struct {
	Index     int      `json:"index"`
	Content   string   `json:"content"`
	Type      string   `json:"type"`
	Options   []string `json:"options"`
	Matchings []string `json:"matchings"`
	Answer    []string `json:"answer"`
}

// Quiz is a quiz as returned by the quiz-fetch endpoint.
type Quiz struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Brief     string         `json:"brief"`
	Category  int            `json:"category"`
	Shuffle   bool           `json:"shuffle"`
	Questions []QuizQuestion `json:"questions"`
}

// UnmarshalJSON accepts the quiz id as a JSON string or number.
func (q *Quiz) UnmarshalJSON(data []byte) error {
	type plain Quiz
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Quiz(raw.plain)
	q.ID = ""
	id := bytes.TrimSpace(raw.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
	case id[0] == '"':
		if err := json.Unmarshal(id, &q.ID); err != nil {
			return err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("quiz id: %w", err)
		}
		q.ID = n.String()
	}
	return nil
}

// QuizQuestion is a question as shown to a taker; answers are never sent.
type QuizQuestion struct {
	Index     int      `json:"index"`
	Type      string   `json:"type"`
	Content   string   `json:"content"`
	Options   []string `json:"options"`
	Matchings []string `json:"matchings,omitempty"`
}

// Response is a taker's answer to one question: selected option texts,
// filled-in strings, or matched values in matching order.
type Response []string

// Session carries the credentials needed by the backend API. Handle is the
// opaque value a view presents to act with these credentials; it is only
// handed out when the session is acquired.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	Handle    string    `json:"handle"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session has a token and has not expired at now.
// A zero ExpiresAt never expires.
func (s Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
