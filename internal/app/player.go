package app

import (
	"github.com/Lego1st/quizzess/internal/domain"
)

// pageWindow is how many page numbers the pager shows at once.
const pageWindow = 5

// Player holds a taker's progress through one fetched quiz, one question per
// page. It is owned by a single view and is not safe for concurrent use.
type Player struct {
	quiz    domain.Quiz
	answers map[int]domain.Response
	page    int
}

// Pagination describes the pager around the current page.
type Pagination struct {
	Current     int   `json:"current"`
	Total       int   `json:"total"`
	Pages       []int `json:"pages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
	Previous    int   `json:"previous"`
	Next        int   `json:"next"`
}

func NewPlayer(quiz domain.Quiz) *Player {
	return &Player{
		quiz:    quiz,
		answers: make(map[int]domain.Response),
		page:    1,
	}
}

func (p *Player) Quiz() domain.Quiz { return p.quiz }

func (p *Player) Page() int { return p.page }

func (p *Player) Total() int { return len(p.quiz.Questions) }

// RecordAnswer stores the response for a question; a later response for the
// same question replaces the earlier one.
func (p *Player) RecordAnswer(questionID int, response domain.Response) error {
	if !p.hasQuestion(questionID) {
		return domain.ErrQuestionNotFound
	}
	stored := make(domain.Response, len(response))
	copy(stored, response)
	p.answers[questionID] = stored
	return nil
}

// Answers returns a copy of the recorded responses keyed by question index.
func (p *Player) Answers() map[int]domain.Response {
	out := make(map[int]domain.Response, len(p.answers))
	for id, r := range p.answers {
		out[id] = r
	}
	return out
}

// GoToPage moves to page n (1-based). Pages outside 1..Total are rejected
// and the current page is kept.
func (p *Player) GoToPage(n int) error {
	if n < 1 || n > p.Total() {
		return &domain.BoundsError{Page: n, Total: p.Total()}
	}
	p.page = n
	return nil
}

// Current returns the question on the current page; false for an empty quiz.
func (p *Player) Current() (domain.QuizQuestion, bool) {
	if p.Total() == 0 {
		return domain.QuizQuestion{}, false
	}
	return p.quiz.Questions[p.page-1], true
}

// Pagination computes a window of up to five page numbers that contains the
// current page, centered on it when possible.
func (p *Player) Pagination() Pagination {
	total := p.Total()
	pg := Pagination{
		Current:     p.page,
		Total:       total,
		Pages:       []int{},
		HasPrevious: p.page > 1,
		HasNext:     p.page < total,
		Previous:    p.page - 1,
		Next:        p.page + 1,
	}
	if total == 0 {
		return pg
	}

	start := p.page - pageWindow/2
	if start < 1 {
		start = 1
	}
	end := start + pageWindow - 1
	if end > total {
		end = total
		start = end - pageWindow + 1
		if start < 1 {
			start = 1
		}
	}
	for i := start; i <= end; i++ {
		pg.Pages = append(pg.Pages, i)
	}
	return pg
}

func (p *Player) hasQuestion(id int) bool {
	for _, q := range p.quiz.Questions {
		if q.Index == id {
			return true
		}
	}
	return false
}
