package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = domain.MustCategoryCodec(map[string]int{"Science": 1, "Math": 2})

func TestEncodeDropsDeletedQuestionsInOrder(t *testing.T) {
	store := NewDraftStore()
	store.SetCategory("Math")
	for i := 0; i < 3; i++ {
		store.AddQuestion()
	}
	require.NoError(t, store.DeleteQuestion(1))

	payload, err := Encode(store.Snapshot(), testCategories)
	require.NoError(t, err)

	require.Len(t, payload.Questions, 2)
	assert.Equal(t, 0, payload.Questions[0].Index)
	assert.Equal(t, 2, payload.Questions[1].Index)
	assert.Equal(t, 2, payload.Category)
}

func TestEncodeChoiceAnswersBecomeText(t *testing.T) {
	draft := domain.Draft{
		Category: "Science",
		Rating:   2,
		Questions: []domain.Question{
			{Index: 0, Content: "Hungry color?", Type: domain.SingleChoice, Options: []string{"Red", "Yellow", "Blue", "Green"}, Correct: []int{0}},
			{Index: 1, Content: "Pick", Type: domain.MultipleChoice, Options: []string{"Lips", "Cheeks", "Both", "Anywhere"}, Correct: []int{0, 1, 2}},
		},
		States: []domain.EntryState{domain.Active, domain.Active},
	}

	payload, err := Encode(draft, testCategories)
	require.NoError(t, err)

	assert.Equal(t, []string{"Red"}, payload.Questions[0].Answer)
	assert.Equal(t, "si", payload.Questions[0].Type)
	assert.Equal(t, []string{"Lips", "Cheeks", "Both"}, payload.Questions[1].Answer)
	assert.Equal(t, "mu", payload.Questions[1].Type)
}

func TestEncodeMatchingAnswerIsOptions(t *testing.T) {
	draft := domain.Draft{
		Category: "Math",
		Questions: []domain.Question{
			{Index: 0, Content: "Match", Type: domain.Matching, Options: []string{"1+1", "2+2"}, Matchings: []string{"2", "4"}, Accepted: []string{"stale"}},
		},
	}

	payload, err := Encode(draft, testCategories)
	require.NoError(t, err)

	assert.Equal(t, []string{"1+1", "2+2"}, payload.Questions[0].Answer)
	assert.Equal(t, "ma", payload.Questions[0].Type)
}

func TestEncodeFillBlankKeepsLiteralAnswer(t *testing.T) {
	draft := domain.Draft{
		Category:  "Math",
		Questions: []domain.Question{{Index: 0, Content: "Best thing?", Type: domain.FillBlank, Accepted: []string{"Love"}}},
	}

	payload, err := Encode(draft, testCategories)
	require.NoError(t, err)
	assert.Equal(t, []string{"Love"}, payload.Questions[0].Answer)
	assert.Equal(t, "fi", payload.Questions[0].Type)
}

func TestEncodeUnknownCategoryFails(t *testing.T) {
	_, err := Encode(NewDraftStore().Snapshot(), testCategories)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "category", verr.Field)
	assert.True(t, errors.Is(err, domain.ErrUnknownCategory))
}

func TestEncodeAnswerOutOfRangeFails(t *testing.T) {
	draft := domain.Draft{
		Category:  "Math",
		Questions: []domain.Question{{Index: 4, Content: "?", Type: domain.SingleChoice, Options: []string{"a"}, Correct: []int{1}}},
	}

	_, err := Encode(draft, testCategories)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 4, verr.Index)
}

func TestEncodedPayloadHasNoDeletions(t *testing.T) {
	store := NewDraftStore()
	store.SetCategory("Math")
	store.AddQuestion()
	require.NoError(t, store.DeleteQuestion(0))

	payload, err := Encode(store.Snapshot(), testCategories)
	require.NoError(t, err)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "deletions")
	assert.Equal(t, []any{}, fields["questions"])
}

func TestMatchingRoundTrip(t *testing.T) {
	draft := domain.Draft{
		Category:  "Math",
		Questions: []domain.Question{{Index: 0, Content: "Match", Type: domain.Matching, Options: []string{"1+1", "2+2"}, Matchings: []string{"2", "4"}}},
	}
	payload, err := Encode(draft, testCategories)
	require.NoError(t, err)

	table := tableFromPayload(t, payload)
	questions, err := Decode(table)
	require.NoError(t, err)

	require.Len(t, questions, 1)
	assert.Equal(t, []string{"1+1", "2+2"}, questions[0].Options)
	assert.Equal(t, payload.Questions[0].Answer, questions[0].Options)
}

func TestSingleChoiceRoundTrip(t *testing.T) {
	draft := domain.Draft{
		Category:  "Science",
		Questions: []domain.Question{{Index: 0, Content: "Hungry color?", Type: domain.SingleChoice, Options: []string{"Red", "Yellow", "Blue", "Green"}, Correct: []int{0}}},
	}
	payload, err := Encode(draft, testCategories)
	require.NoError(t, err)

	questions, err := Decode(tableFromPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, questions[0].Correct)
	assert.Equal(t, draft.Questions[0].Options, questions[0].Options)
}

// tableFromPayload lays a payload out as upload rows.
func tableFromPayload(t *testing.T, p domain.Payload) Table {
	t.Helper()
	var table Table
	for _, q := range p.Questions {
		typ, err := domain.ParseQuestionType(q.Type)
		require.NoError(t, err)
		table.Type = append(table.Type, rawJSON(t, int(typ)))
		table.Content = append(table.Content, rawJSON(t, q.Content))
		table.Options = append(table.Options, rawJSON(t, joinList(q.Options)))
		table.Matchings = append(table.Matchings, rawJSON(t, joinList(q.Matchings)))
		table.Answer = append(table.Answer, rawJSON(t, joinList(q.Answer)))
	}
	return table
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func joinList(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += listSeparator
		}
		out += item
	}
	return out
}
