package http1

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"

	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/document"
	"github.com/corvid-web/corvid/http/method"
	"github.com/corvid-web/corvid/http/mime"
	"github.com/corvid-web/corvid/http/status"
	"github.com/corvid-web/corvid/internal/logging"
	"github.com/corvid-web/corvid/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
)

const (
	crlf               = "\r\n"
	hdrContentLength   = "Content-Length"
	hdrContentType     = "Content-Type"
	defaultContentType = mime.FormUrlencoded
)

var headTerminator = []byte("\r\n\r\n")

// Parser turns a complete request buffer into the request model. It keeps no state
// between calls, so a single instance may be shared by any number of goroutines.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	return &Parser{
		logger: logging.OrDiscard(logger),
	}
}

// Parse processes the request. Returned errors are always status.HTTPError, so they
// can be directly converted into a response.
func (p *Parser) Parse(data []byte) (*http.Request, error) {
	head, body := data, []byte(nil)
	if end := bytes.Index(data, headTerminator); end != -1 {
		head, body = data[:end], data[end+len(headTerminator):]
	}

	lines := strings.Split(string(head), crlf)
	request := http.NewRequest()

	if err := p.parseRequestLine(request, lines[0]); err != nil {
		return nil, err
	}

	for _, line := range lines[1:] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			if len(line) > 0 {
				p.logger.Debug("skipping malformed header line", "line", line)
			}

			continue
		}

		request.Headers.Set(strutil.StripWS(key), strutil.StripWS(value))
	}

	length := contentLength(request.Headers.Value(hdrContentLength))
	if length < len(body) {
		body = body[:length]
	}

	if err := p.parseBody(request, body); err != nil {
		return nil, err
	}

	return request, nil
}

func (p *Parser) parseRequestLine(request *http.Request, line string) error {
	tokens := strings.Split(line, " ")
	if len(tokens) != 3 || len(tokens[0]) == 0 || len(tokens[1]) == 0 || len(tokens[2]) == 0 {
		return status.ErrBadRequest
	}

	request.RawMethod = tokens[0]
	request.Method = method.Parse(tokens[0])
	if !method.Known(tokens[0]) {
		p.logger.Warn("unrecognized request method, treating it as GET", "method", tokens[0])
	}

	path, query, _ := strings.Cut(tokens[1], "?")
	request.Path = path
	request.RawQuery = query
	request.Proto = tokens[2]

	doc, err := parseKV(query, status.ErrBadQuery)
	if err != nil {
		return err
	}

	request.Query = doc

	return nil
}

func (p *Parser) parseBody(request *http.Request, body []byte) error {
	request.Body.Raw = body
	request.Body.ContentType = request.Headers.Value(hdrContentType)

	if len(body) == 0 {
		return nil
	}

	contentType := defaultContentType
	if len(request.Body.ContentType) > 0 {
		contentType = mime.Strip(request.Body.ContentType)
	}

	switch {
	case strcomp.EqualFold(contentType, mime.FormUrlencoded):
		doc, err := parseKV(string(body), status.ErrBadBody)
		if err != nil {
			return err
		}

		request.Body.Doc = doc
	case strcomp.EqualFold(contentType, mime.JSON):
		doc, err := document.ParseBytes(body)
		if err != nil {
			p.logger.Warn("malformed json body, leaving it empty", "error", err)
			return nil
		}

		request.Body.Doc = doc
	default:
		p.logger.Error("unsupported body content type", "content-type", request.Body.ContentType)
	}

	return nil
}

// contentLength returns 0 for every value that isn't a non-negative decimal integer.
func contentLength(value string) int {
	length, err := strconv.Atoi(strutil.StripWS(value))
	if err != nil || length < 0 {
		return 0
	}

	return length
}
