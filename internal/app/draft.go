package app

import (
	"fmt"
	"strconv"

	"github.com/Lego1st/quizzess/internal/domain"
)

const (
	defaultTitle = "This is a title, click to edit."
	defaultBrief = "This is a brief, click to edit."
	minRating    = 1
	maxRating    = 3
)

// DraftStore holds the editable state of one quiz being authored.
// It is owned by a single view and is not safe for concurrent use.
type DraftStore struct {
	title     string
	brief     string
	category  string
	rating    int
	shuffle   bool
	entries   []draftEntry
	nextIndex int
}

type draftEntry struct {
	question domain.Question
	state    domain.EntryState
}

// NewDraftStore returns an empty draft with placeholder fields.
func NewDraftStore() *DraftStore {
	return &DraftStore{
		title:    defaultTitle,
		brief:    defaultBrief,
		category: domain.DefaultCategory,
		rating:   minRating,
	}
}

func (d *DraftStore) SetTitle(title string)       { d.title = title }
func (d *DraftStore) SetBrief(brief string)       { d.brief = brief }
func (d *DraftStore) SetCategory(category string) { d.category = category }
func (d *DraftStore) SetShuffle(shuffle bool)     { d.shuffle = shuffle }

// SetRating stores a 1..3 star rating.
func (d *DraftStore) SetRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return &domain.ValidationError{Field: "rating", Index: -1, Reason: fmt.Sprintf("must be between %d and %d", minRating, maxRating)}
	}
	d.rating = rating
	return nil
}

// SetField updates a quiz-level field by name, as reported by a form input.
func (d *DraftStore) SetField(name, value string) error {
	switch name {
	case "title":
		d.SetTitle(value)
	case "brief":
		d.SetBrief(value)
	case "category":
		d.SetCategory(value)
	case "rating":
		rating, err := strconv.Atoi(value)
		if err != nil {
			return &domain.ValidationError{Field: "rating", Index: -1, Reason: "not a number", Err: err}
		}
		return d.SetRating(rating)
	case "shuffle":
		shuffle, err := strconv.ParseBool(value)
		if err != nil {
			return &domain.ValidationError{Field: "shuffle", Index: -1, Reason: "not a boolean", Err: err}
		}
		d.SetShuffle(shuffle)
	default:
		return &domain.ValidationError{Field: name, Index: -1, Reason: "unknown field"}
	}
	return nil
}

// AddQuestion appends a placeholder single-choice question. Indices come from
// a monotonic counter, so a soft-deleted index is never handed out again.
func (d *DraftStore) AddQuestion() domain.Question {
	q := domain.Question{
		Index:     d.nextIndex,
		Content:   "Edit question " + strconv.Itoa(len(d.entries)),
		Type:      domain.SingleChoice,
		Options:   []string{},
		Matchings: []string{},
		Correct:   []int{},
	}
	d.nextIndex++
	d.entries = append(d.entries, draftEntry{question: q, state: domain.Active})
	return q
}

// UpdateQuestion replaces the question carrying the stable index. The
// replacement keeps that index whatever q.Index says.
func (d *DraftStore) UpdateQuestion(index int, q domain.Question) error {
	pos := d.find(index)
	if pos < 0 {
		return fmt.Errorf("update question %d: %w", index, domain.ErrQuestionNotFound)
	}
	q.Index = index
	d.entries[pos].question = q
	return nil
}

// UpdateQuestionAt overwrites by presentation position, for editors that only
// know where a question sits in the list. The entry keeps its index.
func (d *DraftStore) UpdateQuestionAt(position int, q domain.Question) error {
	if position < 0 || position >= len(d.entries) {
		return fmt.Errorf("update question at %d: %w", position, domain.ErrQuestionNotFound)
	}
	q.Index = d.entries[position].question.Index
	d.entries[position].question = q
	return nil
}

// DeleteQuestion marks the question as deleted. It stays in the draft until
// encoding drops it. Deleting twice is harmless.
func (d *DraftStore) DeleteQuestion(index int) error {
	pos := d.find(index)
	if pos < 0 {
		return fmt.Errorf("delete question %d: %w", index, domain.ErrQuestionNotFound)
	}
	d.entries[pos].state = domain.Deleted
	return nil
}

// ReplaceAllQuestions swaps in an imported question list and forgets every
// earlier deletion. A list that repeats an index is rejected and the draft is
// left as it was.
func (d *DraftStore) ReplaceAllQuestions(questions []domain.Question) error {
	if dup, ok := duplicateIndex(questions); ok {
		return &domain.ValidationError{Field: "index", Index: dup, Reason: "used by more than one question"}
	}
	d.entries = make([]draftEntry, len(questions))
	d.nextIndex = 0
	for i, q := range questions {
		d.entries[i] = draftEntry{question: q, state: domain.Active}
		if q.Index >= d.nextIndex {
			d.nextIndex = q.Index + 1
		}
	}
	return nil
}

func duplicateIndex(questions []domain.Question) (int, bool) {
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.Index]; ok {
			return q.Index, true
		}
		seen[q.Index] = struct{}{}
	}
	return 0, false
}

// Visible returns the active questions in presentation order.
func (d *DraftStore) Visible() []domain.Question {
	out := make([]domain.Question, 0, len(d.entries))
	for _, e := range d.entries {
		if e.state == domain.Active {
			out = append(out, e.question)
		}
	}
	return out
}

// Snapshot copies the draft, deleted entries included.
func (d *DraftStore) Snapshot() domain.Draft {
	draft := domain.Draft{
		Title:     d.title,
		Brief:     d.brief,
		Category:  d.category,
		Rating:    d.rating,
		Shuffle:   d.shuffle,
		Questions: make([]domain.Question, len(d.entries)),
		States:    make([]domain.EntryState, len(d.entries)),
	}
	for i, e := range d.entries {
		draft.Questions[i] = e.question
		draft.States[i] = e.state
	}
	return draft
}

func (d *DraftStore) find(index int) int {
	for i, e := range d.entries {
		if e.question.Index == index {
			return i
		}
	}
	return -1
}
