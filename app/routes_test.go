package app

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhror/zavodbot/core/flow"
	"github.com/akhror/zavodbot/flows"
	"github.com/akhror/zavodbot/storage"

	tele "gopkg.in/telebot.v4"
)

type stubContext struct {
	tele.Context
	callback *tele.Callback
	text     string
	sent     []interface{}
	values   map[string]interface{}
}

func (c *stubContext) Callback() *tele.Callback { return c.callback }
func (c *stubContext) Sender() *tele.User       { return &tele.User{ID: 100} }
func (c *stubContext) Chat() *tele.Chat         { return &tele.Chat{ID: 100} }
func (c *stubContext) Update() tele.Update      { return tele.Update{ID: 1} }
func (c *stubContext) Text() string             { return c.text }

func (c *stubContext) Respond(...*tele.CallbackResponse) error { return nil }

func (c *stubContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *stubContext) Edit(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *stubContext) Set(key string, v interface{}) {
	if c.values == nil {
		c.values = make(map[string]interface{})
	}
	c.values[key] = v
}

func (c *stubContext) Get(key string) interface{} { return c.values[key] }

func (c *stubContext) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent)
	text, ok := c.sent[len(c.sent)-1].(string)
	require.True(t, ok)
	return text
}

type stubUsers struct{}

func (stubUsers) GetByID(_ context.Context, id int64) (*storage.User, error) {
	if id == 100 {
		return &storage.User{ID: 100, FirstName: "Akbar"}, nil
	}
	return nil, storage.ErrNotFound
}

type failingProducts struct{}

func (failingProducts) All(context.Context) ([]storage.Product, error) {
	return nil, errors.New("db is down")
}

func (failingProducts) GetByID(context.Context, int64) (*storage.Product, error) {
	return nil, storage.ErrNotFound
}

func newTestRouter(t *testing.T, deps *flows.Deps, bind func(*flow.Registry[*flows.Deps])) *Router {
	t.Helper()
	reg := flow.NewRegistry[*flows.Deps]()
	require.NoError(t, reg.Register(flows.StepHome, func(context.Context, *flows.Deps, *flow.Session) (flow.Prompt, error) {
		return flow.Prompt{Text: "home"}, nil
	}))
	if bind != nil {
		bind(reg)
	}
	disp := flow.NewDispatcher(reg, deps, flows.StepHome)
	return NewRouter(deps, flow.NewStore(), disp)
}

// A dispatch that fails hard must still answer the chat, not just the log.
func TestHardErrorAnswersChat(t *testing.T) {
	deps := &flows.Deps{Users: stubUsers{}}
	router := newTestRouter(t, deps, func(reg *flow.Registry[*flows.Deps]) {
		reg.BindStep(flows.StepHome, flow.Trigger[*flows.Deps]{
			Kind:    flow.KindCallback,
			Pattern: regexp.MustCompile(`^go$`),
			Next:    "order:missing",
			Push:    true,
		})
	})

	c := &stubContext{callback: &tele.Callback{Data: "go"}}
	require.NoError(t, router.onCallback(c))
	assert.Contains(t, c.lastText(t), "Xatolik")
}

func TestInventoryFailureAnswersChat(t *testing.T) {
	deps := &flows.Deps{Users: stubUsers{}, Products: failingProducts{}}
	router := newTestRouter(t, deps, nil)

	c := &stubContext{}
	require.NoError(t, router.Inventory(c))
	assert.Contains(t, c.lastText(t), "Xatolik")
}
