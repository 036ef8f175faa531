package http1

import (
	"bufio"
	"bytes"
	"io"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/mime"
	"github.com/corvid-web/corvid/http/status"
	"github.com/stretchr/testify/require"
)

func getSerializer() *Serializer {
	return NewSerializer(make([]byte, 0, 1024))
}

func readResponse(t *testing.T, data []byte) *stdhttp.Response {
	stdreq, err := stdhttp.NewRequest(stdhttp.MethodGet, "/", nil)
	require.NoError(t, err)
	resp, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewReader(data)), stdreq)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})

	return resp
}

func TestSerializer_Serialize(t *testing.T) {
	t.Run("default builder", func(t *testing.T) {
		data := getSerializer().Serialize(http.NewResponse())
		require.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", string(data))
	})

	t.Run("empty body", func(t *testing.T) {
		data := getSerializer().Serialize(http.NewResponse().String(""))
		require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 0\r\n\r\n", string(data))
	})

	t.Run("headers and body", func(t *testing.T) {
		response := http.NewResponse().
			Code(status.Forbidden).
			Header("Hello", "nether").
			Header("Server", "corvid").
			Header("Content-Length", "100500").
			ContentType(mime.HTML).
			String("<h1>go away</h1>")

		data := getSerializer().Serialize(response)
		resp := readResponse(t, data)
		require.Equal(t, 403, resp.StatusCode)
		require.Equal(t, "403 Forbidden", resp.Status)
		require.Equal(t, "nether", resp.Header.Get("Hello"))
		require.Equal(t, "corvid", resp.Header.Get("Server"))
		require.Equal(t, "text/html", resp.Header.Get("Content-Type"))
		require.Equal(t, int64(len("<h1>go away</h1>")), resp.ContentLength)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "<h1>go away</h1>", string(body))
	})

	t.Run("header order", func(t *testing.T) {
		response := http.NewResponse().
			Header("B", "2").
			Header("A", "1").
			Header("b", "3")

		data := getSerializer().Serialize(response)
		require.Equal(t, "HTTP/1.1 200 OK\r\nb: 3\r\nA: 1\r\n\r\n", string(data))
	})

	t.Run("resplit", func(t *testing.T) {
		body := []byte("binary\x00\r\n\r\npayload")
		response := http.NewResponse().
			Header("X-Custom", "value").
			ContentType(mime.PNG).
			Bytes(body)

		data := getSerializer().Serialize(response)
		head, payload, found := bytes.Cut(data, []byte("\r\n\r\n"))
		require.True(t, found)
		require.Equal(
			t,
			"HTTP/1.1 200 OK\r\nX-Custom: value\r\nContent-Type: image/png\r\nContent-Length: 18",
			string(head),
		)
		require.Equal(t, body, payload)
	})

	t.Run("not found", func(t *testing.T) {
		resp := readResponse(t, getSerializer().Serialize(http.NotFound()))
		require.Equal(t, 404, resp.StatusCode)
		require.Equal(t, "text/html", resp.Header.Get("Content-Type"))
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.NotFoundBody, string(body))
	})

	t.Run("redirect", func(t *testing.T) {
		data := getSerializer().Serialize(http.Redirect("/new", true))
		require.Equal(t, "HTTP/1.1 301 Moved Permanently\r\nLocation: /new\r\n\r\n", string(data))
	})

	t.Run("unknown code", func(t *testing.T) {
		data := getSerializer().Serialize(http.NewResponse().Code(418))
		require.True(t, bytes.HasPrefix(data, []byte("HTTP/1.1 500 Internal Server Error\r\n")))
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "style.css")
		content := []byte("body { color: red; }")
		require.NoError(t, os.WriteFile(path, content, 0o644))

		response, err := http.Success().File(path)
		require.NoError(t, err)
		resp := readResponse(t, getSerializer().Serialize(response))
		require.Equal(t, mime.CSS, resp.Header.Get("Content-Type"))
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, content, body)
	})

	t.Run("reuse", func(t *testing.T) {
		serializer := getSerializer()
		first := string(serializer.Serialize(http.NewResponse().String("first response")))
		second := string(serializer.Serialize(http.NewResponse().String("2nd")))
		require.Contains(t, first, "first response")
		require.Contains(t, second, "Content-Length: 3\r\n\r\n2nd")
	})
}

func TestSerializer_Write(t *testing.T) {
	var buff bytes.Buffer
	require.NoError(t, getSerializer().Write(http.NewResponse().String("hello"), &buff))
	require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello", buff.String())
}
