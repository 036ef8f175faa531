package corvid

import (
	"fmt"
	"io"
	"net"
	stdhttp "net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/corvid-web/corvid/config"
	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/mime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getConfig() *config.Config {
	cfg := config.Default()
	cfg.Pool.Workers = 4
	cfg.NET.AcceptLoopInterruptPeriod = 20 * time.Millisecond
	cfg.NET.ReadTimeout = 2 * time.Second
	return cfg
}

// run starts the app and returns its base URL. The app is stopped on cleanup.
func run(t *testing.T, app *App) string {
	started := make(chan struct{})
	errCh := make(chan error, 1)

	app.NotifyOnStart(func() {
		close(started)
	})

	go func() {
		errCh <- app.Serve()
	}()

	select {
	case <-started:
	case err := <-errCh:
		t.Fatalf("server didn't start: %v", err)
	}

	t.Cleanup(func() {
		app.Stop()
		require.NoError(t, <-errCh)
	})

	return "http://" + app.Addr().String()
}

func newClient() *stdhttp.Client {
	return &stdhttp.Client{
		Timeout:   5 * time.Second,
		Transport: &stdhttp.Transport{DisableKeepAlives: true},
		CheckRedirect: func(*stdhttp.Request, []*stdhttp.Request) error {
			return stdhttp.ErrUseLastResponse
		},
	}
}

func readBody(t *testing.T, resp *stdhttp.Response) string {
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return string(body)
}

func TestApp(t *testing.T) {
	static := t.TempDir()
	index := "<h1>welcome</h1>"
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte(index), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(static, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "main.css"), []byte("a{}"), 0o644))

	app := New("127.0.0.1:0").
		Tune(getConfig()).
		Logger(nil).
		Get("/hello", func(request *http.Request) *http.Response {
			name, _ := request.Query.Get("name").AsString()
			age, _ := request.Query.Get("age").AsString()
			return http.NewResponse().String(fmt.Sprintf("name=%s age=%s", name, age))
		}).
		Post("/echo", func(request *http.Request) *http.Response {
			return http.NewResponse().JSON(request.Body.Doc)
		}).
		Redirect("/old", "/hello", true).
		Mount(static, "static").
		Mount(filepath.Join(static, "missing"), "/nope")

	base := run(t, app)
	client := newClient()

	t.Run("query", func(t *testing.T) {
		resp, err := client.Get(base + "/hello?name=a&age=7")
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "name=a age=7", readBody(t, resp))
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := client.Get(base + "/nope/")
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
		require.Equal(t, mime.HTML, resp.Header.Get("Content-Type"))
		require.Equal(t, http.NotFoundBody, readBody(t, resp))
	})

	t.Run("form echo", func(t *testing.T) {
		resp, err := client.PostForm(base+"/echo", url.Values{"name": {"a b"}, "age": {"7"}})
		require.NoError(t, err)
		require.Equal(t, mime.JSON, resp.Header.Get("Content-Type"))
		require.JSONEq(t, `{"name":"a b","age":"7"}`, readBody(t, resp))
	})

	t.Run("json echo", func(t *testing.T) {
		const payload = `{"list":[1,2,3],"nested":{"ok":true}}`
		resp, err := client.Post(base+"/echo", mime.JSON, strings.NewReader(payload))
		require.NoError(t, err)
		require.JSONEq(t, payload, readBody(t, resp))
	})

	t.Run("redirect", func(t *testing.T) {
		resp, err := client.Get(base + "/old")
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusMovedPermanently, resp.StatusCode)
		require.Equal(t, "/hello", resp.Header.Get("Location"))
		_ = readBody(t, resp)
	})

	t.Run("static", func(t *testing.T) {
		resp, err := client.Get(base + "/static/")
		require.NoError(t, err)
		require.Equal(t, mime.HTML, resp.Header.Get("Content-Type"))
		require.Equal(t, index, readBody(t, resp))

		resp, err = client.Get(base + "/static/css/main.css")
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, mime.CSS, resp.Header.Get("Content-Type"))
		require.Equal(t, "a{}", readBody(t, resp))
	})

	t.Run("unknown method", func(t *testing.T) {
		conn, err := net.Dial("tcp", strings.TrimPrefix(base, "http://"))
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.Write([]byte("PATCH /hello?name=x HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		data, err := io.ReadAll(conn)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(data), "HTTP/1.1 200 OK\r\n"), string(data))
		require.True(t, strings.HasSuffix(string(data), "name=x age="))
	})

	t.Run("concurrent clients", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := client.Get(fmt.Sprintf("%s/hello?name=c%d", base, i))
				if !assert.NoError(t, err) {
					return
				}
				body, err := io.ReadAll(resp.Body)
				_ = resp.Body.Close()
				assert.NoError(t, err)
				assert.Equal(t, fmt.Sprintf("name=c%d age=", i), string(body))
			}()
		}
		wg.Wait()
	})
}

func TestApp_Lifecycle(t *testing.T) {
	t.Run("stop before serve", func(t *testing.T) {
		app := New("127.0.0.1:0").Logger(nil)
		app.Stop()
		require.ErrorIs(t, app.Serve(), ErrStopped)
	})

	t.Run("hooks", func(t *testing.T) {
		stopped := make(chan struct{})
		app := New("127.0.0.1:0").
			Tune(getConfig()).
			Logger(nil).
			NotifyOnStop(func() {
				close(stopped)
			})

		run(t, app)
		require.NotNil(t, app.Addr())
		app.Stop()
		<-stopped
		app.Stop()
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := getConfig()
		cfg.Pool.Workers = 0
		err := New("127.0.0.1:0").Tune(cfg).Logger(nil).Serve()
		require.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("bad address", func(t *testing.T) {
		err := New("256.0.0.1:99999").Tune(getConfig()).Logger(nil).Serve()
		require.Error(t, err)
	})
}
