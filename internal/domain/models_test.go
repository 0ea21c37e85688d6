package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCodec(t *testing.T) {
	codec := MustCategoryCodec(map[string]int{"Math": 2, "Science": 1})

	code, err := codec.Encode("Math")
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	name, ok := codec.Decode(1)
	assert.True(t, ok)
	assert.Equal(t, "Science", name)

	_, err = codec.Encode(DefaultCategory)
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	assert.Equal(t, []string{"Science", "Math"}, codec.Names())
}

func TestCategoryCodecRejectsDuplicateCodes(t *testing.T) {
	_, err := NewCategoryCodec(map[string]int{"A": 1, "B": 1})
	assert.Error(t, err)
}

func TestQuestionTypeLabels(t *testing.T) {
	assert.Equal(t, "si", SingleChoice.Label())
	assert.Equal(t, "mu", MultipleChoice.Label())
	assert.Equal(t, "fi", FillBlank.Label())
	assert.Equal(t, "ma", Matching.Label())
	assert.Equal(t, "", QuestionType(7).Label())

	typ, err := ParseQuestionType("ma")
	require.NoError(t, err)
	assert.Equal(t, Matching, typ)

	_, err = ParseQuestionType("xx")
	assert.True(t, errors.Is(err, ErrUnknownQuestionType))
}

func TestQuestionJSONAnswerShapeFollowsType(t *testing.T) {
	choice := Question{Index: 3, Content: "Color?", Type: SingleChoice, Options: []string{"Red", "Blue"}, Correct: []int{1}}
	data, err := json.Marshal(choice)
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":3,"content":"Color?","type":0,"options":["Red","Blue"],"matchings":[],"answer":[1]}`, string(data))

	var back Question
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []int{1}, back.Correct)
	assert.Nil(t, back.Accepted)

	fill := []byte(`{"index":0,"content":"Best thing?","type":2,"options":[],"answer":["Love"]}`)
	require.NoError(t, json.Unmarshal(fill, &back))
	assert.Equal(t, FillBlank, back.Type)
	assert.Equal(t, []string{"Love"}, back.Accepted)
	assert.Nil(t, back.Correct)
}

func TestQuestionSlotCount(t *testing.T) {
	assert.Equal(t, 4, Question{}.SlotCount())
	assert.Equal(t, 5, Question{Options: []string{"a", "b", "c", "d", "e"}}.SlotCount())
	assert.Equal(t, 6, Question{Type: FillBlank, Accepted: make([]string, 6)}.SlotCount())
}

func TestSessionValid(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{}.Valid(now))
	assert.True(t, Session{Token: "t"}.Valid(now))
	assert.True(t, Session{Token: "t", ExpiresAt: now.Add(time.Minute)}.Valid(now))
	assert.False(t, Session{Token: "t", ExpiresAt: now}.Valid(now))
}

func TestQuizIDAcceptsNumberOrString(t *testing.T) {
	var quiz Quiz
	require.NoError(t, json.Unmarshal([]byte(`{"id": 12, "title": "Colors", "category": 1, "questions": []}`), &quiz))
	assert.Equal(t, "12", quiz.ID)
	assert.Equal(t, "Colors", quiz.Title)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "abc"}`), &quiz))
	assert.Equal(t, "abc", quiz.ID)
	assert.Empty(t, quiz.Title)

	require.NoError(t, json.Unmarshal([]byte(`{"title": "no id"}`), &quiz))
	assert.Equal(t, "", quiz.ID)
}
