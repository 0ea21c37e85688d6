package app

import (
	"fmt"

	"github.com/Lego1st/quizzess/internal/domain"
)

// Encode turns a draft into the create-quiz payload. Deleted questions are
// dropped here and nowhere else; the survivors keep their relative order.
// Choice answers are converted from option positions to option text, and a
// matching question's answer becomes its option list.
func Encode(draft domain.Draft, categories *domain.CategoryCodec) (domain.Payload, error) {
	code, err := categories.Encode(draft.Category)
	if err != nil {
		return domain.Payload{}, &domain.ValidationError{Field: "category", Index: -1, Reason: fmt.Sprintf("%q is not a known category", draft.Category), Err: err}
	}

	payload := domain.Payload{
		Title:     draft.Title,
		Brief:     draft.Brief,
		Category:  code,
		Rating:    draft.Rating,
		Shuffle:   draft.Shuffle,
		Questions: make([]domain.PayloadQuestion, 0, len(draft.Questions)),
	}
	for i, q := range draft.Questions {
		if i < len(draft.States) && draft.States[i] == domain.Deleted {
			continue
		}
		pq, err := encodeQuestion(q)
		if err != nil {
			return domain.Payload{}, err
		}
		payload.Questions = append(payload.Questions, pq)
	}
	return payload, nil
}

func encodeQuestion(q domain.Question) (domain.PayloadQuestion, error) {
	if !q.Type.Valid() {
		return domain.PayloadQuestion{}, &domain.ValidationError{Field: "type", Index: q.Index, Reason: fmt.Sprintf("code %d", int(q.Type)), Err: domain.ErrUnknownQuestionType}
	}

	pq := domain.PayloadQuestion{
		Index:     q.Index,
		Content:   q.Content,
		Type:      q.Type.Label(),
		Options:   copyStrings(q.Options),
		Matchings: copyStrings(q.Matchings),
	}

	switch {
	case q.Type == domain.Matching:
		pq.Answer = copyStrings(q.Options)
	case q.Type.IsChoice():
		pq.Answer = make([]string, len(q.Correct))
		for i, pos := range q.Correct {
			if pos < 0 || pos >= len(q.Options) {
				return domain.PayloadQuestion{}, &domain.ValidationError{
					Field:  "answer",
					Index:  q.Index,
					Reason: fmt.Sprintf("option position %d out of range [0, %d)", pos, len(q.Options)),
				}
			}
			pq.Answer[i] = q.Options[pos]
		}
	default:
		pq.Answer = copyStrings(q.Accepted)
	}
	return pq, nil
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
