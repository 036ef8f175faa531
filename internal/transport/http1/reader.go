package http1

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/corvid-web/corvid/config"
	"github.com/corvid-web/corvid/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// ReadRequest reads from the connection until the whole request is received: the head is
// terminated and as many body bytes arrived as declared by Content-Length. The connection
// closing early is not an error, neither is reaching cfg.NET.MaxRequestSize: in both cases
// the request is returned as is, truncated.
func ReadRequest(conn net.Conn, cfg *config.Config) ([]byte, error) {
	var (
		data  = make([]byte, 0, cfg.NET.ReadBufferSize)
		chunk = make([]byte, cfg.NET.ReadBufferSize)
		// total is the expected request size, known once the head is received.
		total = -1
	)

	for len(data) < cfg.NET.MaxRequestSize {
		if cfg.NET.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(cfg.NET.ReadTimeout)); err != nil {
				return nil, err
			}
		}

		n, err := conn.Read(chunk[:min(len(chunk), cfg.NET.MaxRequestSize-len(data))])
		data = append(data, chunk[:n]...)

		if total == -1 {
			if end := bytes.Index(data, headTerminator); end != -1 {
				// the read is capped by MaxRequestSize anyway, so a larger
				// declared length only means reading up to the limit.
				length := min(declaredLength(data[:end]), cfg.NET.MaxRequestSize)
				total = end + len(headTerminator) + length
			}
		}

		if total != -1 && len(data) >= total {
			return data[:total], nil
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			if len(data) == 0 {
				return nil, io.EOF
			}

			return data, nil
		default:
			return nil, err
		}
	}

	return data, nil
}

// declaredLength looks for the Content-Length header in the request head. It must agree
// with the parser: the last occurrence wins and malformed values count as zero.
func declaredLength(head []byte) (length int) {
	for _, line := range strings.Split(uf.B2S(head), crlf)[1:] {
		key, value, found := strings.Cut(line, ":")
		if found && strcomp.EqualFold(strutil.StripWS(key), hdrContentLength) {
			length = contentLength(value)
		}
	}

	return length
}
