// Package rtsp implements the minimal RTSP client side the discovery
// pipeline needs: a blocking DESCRIBE request that returns the endpoint's
// session description.
package rtsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

const rtspVersion = "RTSP/1.0"

// Config configures the RTSP client.
type Config struct {
	// DialTimeout bounds the TCP connect to the endpoint.
	// Default: 5 seconds.
	DialTimeout time.Duration

	// RequestTimeout bounds the whole request/response exchange once the
	// connection is up. Default: 10 seconds.
	RequestTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps the accepted description size in bytes.
	// Default: 64 KiB.
	MaxBodySize int
}

// DefaultConfig returns the default RTSP client configuration.
func DefaultConfig() Config {
	return Config{
		DialTimeout:    5 * time.Second,
		RequestTimeout: 10 * time.Second,
		UserAgent:      "sourcescan",
		MaxBodySize:    64 * 1024,
	}
}

// RTSP client errors.
var (
	ErrBodyTooLarge = errors.New("rtsp: response body exceeds limit")
	ErrBadResponse  = errors.New("rtsp: malformed response")
)

// StatusError reports a non-success RTSP status.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rtsp: server returned %d %s", e.Code, e.Reason)
}

// Client performs RTSP requests against discovered endpoints. Each request
// uses its own TCP connection; the client itself holds no state and is safe
// for concurrent use.
type Client struct {
	cfg Config
}

// NewClient creates an RTSP client. Zero config fields fall back to the
// defaults.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = def.DialTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	return &Client{cfg: cfg}
}

// Describe sends a DESCRIBE request for path to the endpoint at addr:port
// and returns the session description body. A non-2xx status is returned as
// a *StatusError.
func (c *Client) Describe(path, addr, port string) (string, error) {
	hostPort := net.JoinHostPort(addr, port)

	conn, err := net.DialTimeout("tcp", hostPort, c.cfg.DialTimeout)
	if err != nil {
		return "", fmt.Errorf("rtsp: dial %s: %w", hostPort, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.cfg.RequestTimeout)); err != nil {
		return "", fmt.Errorf("rtsp: set deadline: %w", err)
	}

	uri := "rtsp://" + hostPort + "/" + strings.TrimPrefix(path, "/")

	var req strings.Builder
	fmt.Fprintf(&req, "DESCRIBE %s %s\r\n", uri, rtspVersion)
	req.WriteString("CSeq: 1\r\n")
	fmt.Fprintf(&req, "User-Agent: %s\r\n", c.cfg.UserAgent)
	req.WriteString("Accept: application/sdp\r\n")
	req.WriteString("\r\n")

	if _, err := io.WriteString(conn, req.String()); err != nil {
		return "", fmt.Errorf("rtsp: send request: %w", err)
	}

	return c.readResponse(conn)
}

func (c *Client) readResponse(conn net.Conn) (string, error) {
	// The slack on top of MaxBodySize leaves room for status line and
	// headers before the body limit is enforced separately.
	limited := io.LimitReader(conn, int64(c.cfg.MaxBodySize)+4096)
	tp := textproto.NewReader(bufio.NewReader(limited))

	statusLine, err := tp.ReadLine()
	if err != nil {
		return "", fmt.Errorf("rtsp: read status line: %w", err)
	}

	code, reason, err := parseStatusLine(statusLine)
	if err != nil {
		return "", err
	}

	headers, err := tp.ReadMIMEHeader()
	if err != nil {
		return "", fmt.Errorf("rtsp: read headers: %w", err)
	}

	if code < 200 || code > 299 {
		return "", &StatusError{Code: code, Reason: reason}
	}

	body, err := readBody(tp.R, headers.Get("Content-Length"), c.cfg.MaxBodySize)
	if err != nil {
		return "", err
	}
	return body, nil
}

// parseStatusLine splits "RTSP/1.0 200 OK" into code and reason.
func parseStatusLine(line string) (int, string, error) {
	proto, rest, ok := strings.Cut(line, " ")
	if !ok || !strings.HasPrefix(proto, "RTSP/") {
		return 0, "", fmt.Errorf("%w: %q", ErrBadResponse, line)
	}

	codeText, reason, _ := strings.Cut(rest, " ")
	code, err := strconv.Atoi(codeText)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrBadResponse, line)
	}
	return code, reason, nil
}

// readBody reads the response body. With a Content-Length header exactly
// that many bytes are read; without one the body runs until EOF.
func readBody(r io.Reader, contentLength string, limit int) (string, error) {
	if contentLength != "" {
		n, err := strconv.Atoi(strings.TrimSpace(contentLength))
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: content-length %q", ErrBadResponse, contentLength)
		}
		if n > limit {
			return "", ErrBodyTooLarge
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("rtsp: read body: %w", err)
		}
		return string(buf), nil
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return "", fmt.Errorf("rtsp: read body: %w", err)
	}
	if len(data) > limit {
		return "", ErrBodyTooLarge
	}
	return string(data), nil
}
