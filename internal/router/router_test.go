package router

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbeoliero/threadly/internal/app"
	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/handler"
	"github.com/mbeoliero/threadly/internal/scheduler"
	"github.com/mbeoliero/threadly/pkg/constant"
	"github.com/mbeoliero/threadly/pkg/errcode"
)

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testAPI struct {
	h     *server.Hertz
	app   *app.App
	sched *scheduler.Virtual
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := config.Default()
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Emoji.Palette = []string{"https://cdn.threadly.local/emoji/heart.png"}
	sched := scheduler.NewVirtual(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	a, err := app.New(context.Background(), cfg, sched)
	require.NoError(t, err)

	repo := a.Repos.Conversation
	require.NoError(t, repo.Create(entity.Conversation{Id: "1", Name: "Alice Moreau", LastOpenedAt: 1}, []entity.Message{
		{Id: "s1", Direction: entity.DirectionInbound, Body: "lunch?", TimeLabel: "08:40"},
	}))
	require.NoError(t, repo.Create(entity.Conversation{Id: "2", Name: "David Okafor", LastOpenedAt: 3}, nil))
	require.NoError(t, repo.Create(entity.Conversation{Id: "3", Name: "Alina Petrova", LastOpenedAt: 2}, nil))

	h := server.Default()
	SetupRouter(h, cfg, &Handlers{
		Conversation: handler.NewConversationHandler(a.Chat),
		Message:      handler.NewMessageHandler(a.Chat),
		Session:      handler.NewSessionHandler(a.Chat, a.Resolver, cfg.Emoji.Palette),
	}, a.Metrics, nil)

	return &testAPI{h: h, app: a, sched: sched}
}

func (api *testAPI) get(t *testing.T, path string) apiResponse {
	t.Helper()
	w := ut.PerformRequest(api.h.Engine, "GET", path, nil)
	return decode(t, w)
}

func (api *testAPI) post(t *testing.T, path string, body interface{}) apiResponse {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := ut.PerformRequest(api.h.Engine, "POST", path,
		&ut.Body{Body: bytes.NewReader(raw), Len: len(raw)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	return decode(t, w)
}

func decode(t *testing.T, w *ut.ResponseRecorder) apiResponse {
	t.Helper()
	resp := w.Result()
	require.Equal(t, 200, resp.StatusCode())

	var out apiResponse
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	return out
}

func conversationIds(t *testing.T, data json.RawMessage) []string {
	t.Helper()
	var infos []*entity.ConversationInfo
	require.NoError(t, json.Unmarshal(data, &infos))

	result := make([]string, 0, len(infos))
	for _, info := range infos {
		result = append(result, info.Id)
	}
	return result
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := ut.PerformRequest(api.h.Engine, "GET", "/health", nil)
	assert.Equal(t, 200, w.Result().StatusCode())
	assert.Contains(t, string(w.Result().Body()), "ok")

	require.Zero(t, api.post(t, "/conversation/open", handler.ConversationIdRequest{ConversationId: "1"}).Code)
	require.Zero(t, api.post(t, "/msg/send", handler.SendMessageRequest{Text: "hi"}).Code)

	w = ut.PerformRequest(api.h.Engine, "GET", "/metrics", nil)
	require.Equal(t, 200, w.Result().StatusCode())
	body := string(w.Result().Body())
	assert.Contains(t, body, constant.MetricsNamespace+"_messages_sent_total 1")
	assert.Contains(t, body, constant.MetricsNamespace+"_conversations_opened_total 1")
}

func TestConversationList(t *testing.T) {
	api := newTestAPI(t)

	resp := api.get(t, "/conversation/list")
	require.Zero(t, resp.Code)
	assert.Equal(t, []string{"2", "3", "1"}, conversationIds(t, resp.Data))

	resp = api.get(t, "/conversation/list?q=ali")
	assert.Equal(t, []string{"3", "1"}, conversationIds(t, resp.Data))

	resp = api.get(t, "/conversation/recent?limit=1")
	assert.Equal(t, []string{"2"}, conversationIds(t, resp.Data))

	resp = api.get(t, "/conversation/recent?limit=abc")
	assert.Equal(t, errcode.ErrInvalidParam.Code, resp.Code)
}

func TestSearchUpdatesSessionQuery(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post(t, "/conversation/search", handler.SearchRequest{Query: "ALI"})
	require.Zero(t, resp.Code)
	assert.Equal(t, []string{"3", "1"}, conversationIds(t, resp.Data))

	resp = api.get(t, "/conversation/list")
	assert.Equal(t, []string{"3", "1"}, conversationIds(t, resp.Data))
	assert.Equal(t, "ALI", api.app.Chat.State().Query)
}

func TestSendFlow(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post(t, "/msg/send", handler.SendMessageRequest{Text: "hi"})
	assert.Equal(t, errcode.ErrNoActiveConversation.Code, resp.Code)

	resp = api.post(t, "/conversation/open", handler.ConversationIdRequest{ConversationId: "1"})
	require.Zero(t, resp.Code)
	assert.Contains(t, string(resp.Data), `"active_id":"1"`)

	resp = api.post(t, "/msg/send", handler.SendMessageRequest{Text: "   "})
	assert.Equal(t, errcode.ErrInvalidInput.Code, resp.Code)

	resp = api.post(t, "/msg/send", handler.SendMessageRequest{Text: "hi"})
	require.Zero(t, resp.Code)
	var sent entity.MessageInfo
	require.NoError(t, json.Unmarshal(resp.Data, &sent))
	assert.Equal(t, 1, sent.Index)
	assert.Equal(t, entity.StatusSent, sent.Status)

	api.sched.Advance(constant.SeenDelay)

	resp = api.get(t, "/msg/list?conversation_id=1")
	require.Zero(t, resp.Code)
	var thread struct {
		ConversationId string                `json:"conversation_id"`
		Messages       []*entity.MessageInfo `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &thread))
	require.Len(t, thread.Messages, 2)
	assert.Equal(t, entity.StatusSeen, thread.Messages[1].Status)

	resp = api.get(t, "/conversation/info?conversation_id=1")
	var conv entity.Conversation
	require.NoError(t, json.Unmarshal(resp.Data, &conv))
	assert.Equal(t, "hi", conv.LastMessage)
	assert.Equal(t, entity.StatusSeen, conv.DeliveryState)
}

func TestReact(t *testing.T) {
	api := newTestAPI(t)
	require.Zero(t, api.post(t, "/conversation/open", handler.ConversationIdRequest{ConversationId: "1"}).Code)

	resp := api.post(t, "/msg/react", handler.ReactRequest{Index: 0, Token: "heart"})
	require.Zero(t, resp.Code)
	assert.JSONEq(t, `{"added":true}`, string(resp.Data))

	resp = api.post(t, "/msg/react", handler.ReactRequest{Index: 0, Token: "heart"})
	assert.JSONEq(t, `{"added":false}`, string(resp.Data))

	resp = api.post(t, "/msg/react", handler.ReactRequest{Index: 5, Token: "heart"})
	assert.Equal(t, errcode.ErrMessageNotFound.Code, resp.Code)
}

func TestReceiveAndDelete(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post(t, "/msg/receive", handler.ReceiveMessageRequest{ConversationId: "3", Text: "ping"})
	require.Zero(t, resp.Code)
	assert.JSONEq(t, `{"index":0}`, string(resp.Data))

	conv, err := api.app.Chat.Conversation("3")
	require.NoError(t, err)
	assert.True(t, conv.Unread)

	resp = api.post(t, "/conversation/delete", handler.ConversationIdRequest{ConversationId: "3"})
	require.Zero(t, resp.Code)
	resp = api.post(t, "/conversation/delete", handler.ConversationIdRequest{ConversationId: "3"})
	assert.Equal(t, errcode.ErrConvNotFound.Code, resp.Code)

	resp = api.get(t, "/conversation/info?conversation_id=3")
	assert.Equal(t, errcode.ErrConvNotFound.Code, resp.Code)
}

func TestSetPresence(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post(t, "/conversation/presence", handler.PresenceRequest{ConversationId: "2", Online: true})
	require.Zero(t, resp.Code)
	conv, err := api.app.Chat.Conversation("2")
	require.NoError(t, err)
	assert.True(t, conv.Online)

	resp = api.post(t, "/conversation/presence", handler.PresenceRequest{Online: true})
	assert.Equal(t, errcode.ErrInvalidParam.Code, resp.Code)
}

func TestSessionLayout(t *testing.T) {
	api := newTestAPI(t)

	resp := api.get(t, "/session?width=375")
	require.Zero(t, resp.Code)
	var session struct {
		Selected bool `json:"selected"`
		Layout   struct {
			Mode     string `json:"mode"`
			ShowList bool   `json:"show_list"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &session))
	assert.False(t, session.Selected)
	assert.Equal(t, "mobile", session.Layout.Mode)
	assert.True(t, session.Layout.ShowList)

	resp = api.get(t, "/session?width=-1")
	assert.Equal(t, errcode.ErrInvalidParam.Code, resp.Code)

	resp = api.get(t, "/session")
	assert.NotContains(t, string(resp.Data), "layout")

	resp = api.get(t, "/emoji/palette")
	assert.JSONEq(t, `{"palette":["https://cdn.threadly.local/emoji/heart.png"]}`, string(resp.Data))
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t)

	w := ut.PerformRequest(api.h.Engine, "OPTIONS", "/msg/send", nil,
		ut.Header{Key: "Origin", Value: "http://localhost:5173"})
	assert.Equal(t, 204, w.Result().StatusCode())
	assert.Equal(t, "http://localhost:5173", string(w.Result().Header.Peek("Access-Control-Allow-Origin")))

	w = ut.PerformRequest(api.h.Engine, "GET", "/health", nil,
		ut.Header{Key: "Origin", Value: "http://evil.test"})
	assert.Empty(t, w.Result().Header.Peek("Access-Control-Allow-Origin"))
}
