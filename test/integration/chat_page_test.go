package integration

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lens-agent/internal/application/port/input"
	"lens-agent/internal/infrastructure/logger"
	"lens-agent/internal/infrastructure/web"
	"lens-agent/internal/usecase/chat"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatedAgent struct {
	release chan struct{}
	once    sync.Once
}

func (g *gatedAgent) Reply(ctx context.Context, prompt string) (*input.Reply, error) {
	<-g.release
	return &input.Reply{Text: "echo: " + prompt, Steps: 1}, nil
}

func (g *gatedAgent) open() {
	g.once.Do(func() { close(g.release) })
}

func startServer(t *testing.T, agent input.ChatAgent) string {
	t.Helper()

	store := chat.NewStore(func() *chat.Session {
		return chat.NewSession(agent, logger.NewNop())
	})
	router, err := web.NewRouter(store, logger.NewNop(), web.Config{ServiceName: "integration"})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = store.Close(context.Background())
	})
	return server.URL
}

func launchBrowser(t *testing.T) *rod.Browser {
	t.Helper()

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Delete("use-mock-keychain").
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	require.NoError(t, err)

	browser := rod.New().ControlURL(url)
	require.NoError(t, browser.Connect())

	t.Cleanup(func() {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
	})
	return browser
}

func TestChatPage_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a local Chrome")
	}

	agent := &gatedAgent{release: make(chan struct{})}
	defer agent.open()
	baseURL := startServer(t, agent)

	page := launchBrowser(t).MustPage(baseURL).Timeout(15 * time.Second)
	page.MustWaitLoad()

	assert.Equal(t, "Lens AI", page.MustElement("h1").MustText())
	assert.Equal(t, "Welcome to Lens Agent", page.MustElement(".message.remote").MustText())

	prompt := page.MustElement("#prompt")
	assert.Equal(t, "Type your prompt here", *prompt.MustAttribute("placeholder"))

	prompt.MustInput("hello")
	page.MustElement("#submit").MustClick()

	page.MustElement(".message.thinking")
	assert.Equal(t, "hello", page.MustElement(".message.self").MustText())
	require.NoError(t, page.Wait(rod.Eval(`() => document.getElementById("prompt").value === ""`)))

	agent.open()

	page.MustElementR(".message.remote", "echo: hello")
	require.NoError(t, page.Wait(rod.Eval(`() => document.querySelector(".message.thinking") === null`)))

	texts := []string{}
	for _, el := range page.MustElements(".message") {
		texts = append(texts, el.MustText())
	}
	assert.Equal(t, []string{"Welcome to Lens Agent", "hello", "echo: hello"}, texts)
}
