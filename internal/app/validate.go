package app

import (
	"fmt"

	"github.com/Lego1st/quizzess/internal/domain"
)

type optionLimits struct {
	min, max int
}

// Limits enforced by the create-quiz endpoint.
var optionRules = map[domain.QuestionType]optionLimits{
	domain.SingleChoice:   {min: 2, max: 7},
	domain.MultipleChoice: {min: 3, max: 20},
	domain.Matching:       {min: 2, max: 20},
	domain.FillBlank:      {min: 0, max: 0},
}

// Validate checks an encoded payload against the rules the backend applies,
// so an author sees the problem before the request is sent.
func Validate(p domain.Payload) error {
	if len(p.Questions) == 0 {
		return &domain.ValidationError{Field: "questions", Index: -1, Reason: "need at least one question"}
	}
	if p.Rating < minRating || p.Rating > maxRating {
		return &domain.ValidationError{Field: "rating", Index: -1, Reason: fmt.Sprintf("must be between %d and %d", minRating, maxRating)}
	}
	seen := make(map[int]struct{}, len(p.Questions))
	for _, q := range p.Questions {
		if _, ok := seen[q.Index]; ok {
			return &domain.ValidationError{Field: "index", Index: q.Index, Reason: "used by more than one question"}
		}
		seen[q.Index] = struct{}{}
		if err := validateQuestion(q); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(q domain.PayloadQuestion) error {
	invalid := func(field, reason string, args ...any) error {
		return &domain.ValidationError{Field: field, Index: q.Index, Reason: fmt.Sprintf(reason, args...)}
	}

	typ, err := domain.ParseQuestionType(q.Type)
	if err != nil {
		return &domain.ValidationError{Field: "type", Index: q.Index, Reason: err.Error(), Err: err}
	}
	if q.Content == "" {
		return invalid("content", "required")
	}
	if len(q.Answer) == 0 {
		return invalid("answer", "required")
	}

	limits := optionRules[typ]
	if len(q.Options) < limits.min {
		return invalid("options", "%s question needs at least %d options", typ.Name(), limits.min)
	}
	if len(q.Options) > limits.max {
		return invalid("options", "%s question limits to %d options", typ.Name(), limits.max)
	}

	switch typ {
	case domain.SingleChoice:
		if len(q.Answer) != 1 {
			return invalid("answer", "single choice question needs exactly one answer")
		}
	case domain.MultipleChoice:
		if len(q.Answer) > len(q.Options) {
			return invalid("answer", "more answers than options")
		}
	case domain.Matching:
		if len(q.Options) != len(q.Matchings) || len(q.Options) != len(q.Answer) {
			return invalid("matchings", "options, matchings and answer must have the same length")
		}
	}
	if typ != domain.FillBlank {
		for _, a := range q.Answer {
			if indexOf(q.Options, a) < 0 {
				return invalid("answer", "%q does not match any option", a)
			}
		}
	}
	return nil
}
