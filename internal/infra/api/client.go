package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lego1st/quizzess/internal/app"
	"github.com/Lego1st/quizzess/internal/domain"
)

const (
	createQuizPath = "/api/create_quiz/"
	quizPathFormat = "/api/quiz_question/%s/"
	uploadField    = "quiz_file"

	// DefaultUploadPath is used when no upload path is configured.
	DefaultUploadPath = "/api/upload_quiz/"

	maxErrorBody = 4 << 10

	// DefaultMaxResponseSize bounds every response body read from the backend.
	DefaultMaxResponseSize = 32 << 20
)

// Client talks to the quiz backend over its HTTP JSON API.
type Client struct {
	baseURL    string
	uploadPath string
	maxBody    int64
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUploadPath sets the path of the file-upload endpoint.
func WithUploadPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.uploadPath = path
		}
	}
}

// WithMaxResponseSize sets the largest response body the client accepts.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		uploadPath: DefaultUploadPath,
		maxBody:    DefaultMaxResponseSize,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateQuiz posts an encoded draft to the create-quiz endpoint.
func (c *Client) CreateQuiz(ctx context.Context, session domain.Session, payload domain.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createQuizPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	_, err = c.do(request, session, "create quiz")
	return err
}

// UploadQuizFile sends a spreadsheet as multipart field quiz_file and returns
// the question table parsed by the backend.
func (c *Client) UploadQuizFile(ctx context.Context, session domain.Session, fileName string, data []byte) (app.Table, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(uploadField, fileName)
	if err != nil {
		return app.Table{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = part.Write(data); err != nil {
		return app.Table{}, fmt.Errorf("failed to write data to multipart form: %w", err)
	}
	if err = writer.Close(); err != nil {
		return app.Table{}, fmt.Errorf("failed to close multipart form: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.uploadPath, &buf)
	if err != nil {
		return app.Table{}, err
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Accept", "application/json, text/plain, */*")

	respBody, err := c.do(request, session, "upload quiz file")
	if err != nil {
		return app.Table{}, err
	}
	return app.ParseUpload(respBody)
}

// FetchQuiz loads a quiz for taking. Answers are not part of the response.
func (c *Client) FetchQuiz(ctx context.Context, session domain.Session, quizID string) (domain.Quiz, error) {
	endpoint := c.baseURL + fmt.Sprintf(quizPathFormat, url.PathEscape(quizID))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Quiz{}, err
	}

	respBody, err := c.do(request, session, "fetch quiz")
	if err != nil {
		var rejected *domain.RejectedError
		if errors.As(err, &rejected) && rejected.Status == http.StatusNotFound {
			return domain.Quiz{}, fmt.Errorf("%w: %w", domain.ErrQuizNotFound, err)
		}
		return domain.Quiz{}, err
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(respBody, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz %s: %w", quizID, err)
	}
	if quiz.ID == "" || quiz.ID == "0" {
		quiz.ID = quizID
	}
	return quiz, nil
}

// do sends the request with the session token and returns the body of a 2xx
// response. A missing response is a NetworkError, any other status a
// RejectedError carrying the server's message.
func (c *Client) do(request *http.Request, session domain.Session, op string) ([]byte, error) {
	if session.Token != "" {
		request.Header.Set("Authorization", "Token "+session.Token)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RejectedError{Op: op, Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if int64(len(data)) > c.maxBody {
		return nil, &domain.DecodeError{Row: -1, Column: "body", Reason: fmt.Sprintf("%s response exceeds %d bytes", op, c.maxBody)}
	}
	return data, nil
}

// errorMessage extracts a readable message from an error body: the "detail"
// field if the body is a JSON object that has one, else the trimmed body.
func errorMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}

// QuizLoader adapts the client to the cache layers' loader contract, using a
// fixed service session.
type QuizLoader struct {
	client  *Client
	session domain.Session
}

func NewQuizLoader(client *Client, session domain.Session) *QuizLoader {
	return &QuizLoader{client: client, session: session}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return l.client.FetchQuiz(ctx, l.session, quizID)
}
