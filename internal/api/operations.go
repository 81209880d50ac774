package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"github.com/zhubert/pdfqa/internal/conversation"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/logger"
)

// Answer is the backend's response to a question.
type Answer struct {
	// MessageID is zero when the backend did not assign one yet.
	MessageID conversation.ID
	Content   string
	Citations []conversation.Citation
	// ConversationID is zero when the backend left it unchanged.
	ConversationID conversation.ID
	// QuestionID is zero unless the backend reports the stored question's id.
	QuestionID conversation.ID
}

// AnswerMessage returns the answer as a conversation message.
func (a Answer) AnswerMessage() conversation.Message {
	return conversation.Message{
		ID:        a.MessageID,
		Content:   a.Content,
		Type:      conversation.TypeAnswer,
		Citations: a.Citations,
	}
}

// FetchConversations lists the user's conversations, newest first as the
// backend returns them.
func (c *Client) FetchConversations(ctx context.Context) ([]conversation.Conversation, error) {
	const op = pqerrors.Op("api.FetchConversations")

	data, err := c.do(ctx, request{op: op, method: http.MethodGet, path: pathConversations})
	if err != nil {
		return nil, err
	}
	root, err := parseJSON(op, data)
	if err != nil {
		return nil, err
	}
	// Some deployments wrap the list in {"data": [...]}.
	if !root.IsArray() {
		if wrapped := root.Get("data"); wrapped.IsArray() {
			root = wrapped
		} else {
			return nil, pqerrors.Transport(op, "failed to parse response", fmt.Errorf("expected a list of conversations"))
		}
	}

	var convs []conversation.Conversation
	for _, item := range root.Array() {
		conv, ok := parseConversation(item)
		if !ok {
			logger.ComponentLogger("api").Warn("skipping conversation without id", "raw", item.Raw)
			continue
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

func parseConversation(r gjson.Result) (conversation.Conversation, bool) {
	id := parseID(r.Get("id"))
	if id.IsZero() {
		return conversation.Conversation{}, false
	}
	conv := conversation.Conversation{
		ID:        id,
		Title:     r.Get("title").String(),
		Timestamp: parseTime(r.Get("timestamp")),
		Messages:  []conversation.Message{},
	}
	if conv.Title == "" {
		conv.Title = conversation.DefaultTitle
	}
	seen := make(map[conversation.ID]bool)
	for i, m := range r.Get("messages").Array() {
		msgType, err := conversation.ParseMessageType(m.Get("type").String())
		if err != nil {
			continue
		}
		msgID := parseID(m.Get("id"))
		if msgID.IsZero() {
			// Position within the server list is stable across fetches.
			msgID = conversation.Persisted(fmt.Sprintf("%s/m%d", id, i))
		}
		if seen[msgID] {
			logger.ComponentLogger("api").Warn("skipping duplicate message id",
				"conversation", id.String(), "message", msgID.String())
			continue
		}
		seen[msgID] = true
		conv.Messages = append(conv.Messages, conversation.Message{
			ID:        msgID,
			Content:   m.Get("content").String(),
			Type:      msgType,
			Timestamp: parseTime(m.Get("timestamp")),
			Citations: parseCitations(m.Get("citations")),
		})
	}
	return conv, true
}

func parseCitations(r gjson.Result) []conversation.Citation {
	var out []conversation.Citation
	for _, c := range r.Array() {
		out = append(out, conversation.Citation{
			Document: c.Get("document").String(),
			Page:     int(c.Get("page").Int()),
			Text:     c.Get("text").String(),
		})
	}
	return out
}

// parseID accepts numeric or string ids. Absent or empty ids are zero.
func parseID(r gjson.Result) conversation.ID {
	if !r.Exists() || r.Type == gjson.Null {
		return conversation.ID{}
	}
	s := r.String()
	if s == "" {
		return conversation.ID{}
	}
	return conversation.Persisted(s)
}

func parseTime(r gjson.Result) time.Time {
	if !r.Exists() {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, r.String()); err == nil {
		return t
	}
	return time.Time{}
}

// questionRequest is the POST /api/questions body. Pointers encode null.
type questionRequest struct {
	ConversationID *string `json:"conversationId"`
	Question       string  `json:"question"`
	DocumentID     *string `json:"documentId"`
}

// AskQuestion sends a question against convID. An ephemeral convID is sent
// as null so the backend creates the conversation.
func (c *Client) AskQuestion(ctx context.Context, convID conversation.ID, question, documentID string) (Answer, error) {
	const op = pqerrors.Op("api.AskQuestion")

	body := questionRequest{
		ConversationID: convID.ServerRef(),
		Question:       question,
	}
	if documentID != "" {
		body.DocumentID = &documentID
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Answer{}, pqerrors.Transport(op, "failed to encode request", err)
	}

	data, err := c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        pathQuestions,
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return Answer{}, err
	}
	root, err := parseJSON(op, data)
	if err != nil {
		return Answer{}, err
	}
	if !root.Get("answer").Exists() {
		return Answer{}, pqerrors.Transport(op, "failed to parse response", fmt.Errorf("response has no answer"))
	}

	return Answer{
		MessageID:      parseID(root.Get("messageId")),
		Content:        root.Get("answer").String(),
		Citations:      parseCitations(root.Get("citations")),
		ConversationID: parseID(root.Get("conversationId")),
		QuestionID:     parseID(root.Get("questionId")),
	}, nil
}

type feedbackRequest struct {
	Feedback       string  `json:"feedback"`
	ConversationID *string `json:"conversationId"`
	LastMessageID  *string `json:"lastMessageId"`
}

// SubmitFeedback posts free-text feedback. Ids the backend can't resolve
// yet (ephemeral or zero) are sent as null.
func (c *Client) SubmitFeedback(ctx context.Context, feedback string, convID, lastAnswerID conversation.ID) error {
	const op = pqerrors.Op("api.SubmitFeedback")

	payload, err := json.Marshal(feedbackRequest{
		Feedback:       feedback,
		ConversationID: convID.ServerRef(),
		LastMessageID:  lastAnswerID.ServerRef(),
	})
	if err != nil {
		return pqerrors.Transport(op, "failed to encode request", err)
	}
	_, err = c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        pathFeedback,
		body:        payload,
		contentType: "application/json",
	})
	return err
}

// UploadDocument sends a PDF as the multipart field "pdf". Name and upload
// date are filled locally when the backend omits them.
func (c *Client) UploadDocument(ctx context.Context, r io.Reader, fileName string) (conversation.Document, error) {
	const op = pqerrors.Op("api.UploadDocument")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("pdf", fileName)
	if err != nil {
		return conversation.Document{}, pqerrors.E(op, pqerrors.KindIO, "failed to build upload", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return conversation.Document{}, pqerrors.E(op, pqerrors.KindIO, "failed to read document", err)
	}
	if err := mw.Close(); err != nil {
		return conversation.Document{}, pqerrors.E(op, pqerrors.KindIO, "failed to build upload", err)
	}

	data, err := c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        pathPDFs,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return conversation.Document{}, err
	}
	root, err := parseJSON(op, data)
	if err != nil {
		return conversation.Document{}, err
	}
	doc := conversation.Document{
		ID:         root.Get("id").String(),
		Name:       root.Get("name").String(),
		UploadDate: parseTime(root.Get("uploadDate")),
	}
	if doc.ID == "" {
		return conversation.Document{}, pqerrors.Transport(op, "failed to parse response", fmt.Errorf("response has no document id"))
	}
	if doc.Name == "" {
		doc.Name = fileName
	}
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now()
	}
	return doc, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password, companyCode string) (string, error) {
	const op = pqerrors.Op("api.Login")

	q := url.Values{}
	q.Set("username", username)
	q.Set("password", password)
	q.Set("companyCode", companyCode)

	data, err := c.do(ctx, request{
		op:        op,
		method:    http.MethodGet,
		path:      pathLogin + "?" + q.Encode(),
		anonymous: true,
	})
	if err != nil {
		return "", err
	}
	root, err := parseJSON(op, data)
	if err != nil {
		return "", err
	}
	token := root.Get("token").String()
	if token == "" {
		return "", pqerrors.Unauthorized(op)
	}
	return token, nil
}
