package rtsp

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

const testSDP = "v=0\r\no=- 0 0 IN IP4 192.168.1.20\r\ns=Stage Box 1\r\nm=audio 5004 RTP/AVP 96\r\n"

// fakeServer is a single-shot RTSP endpoint for tests. It records the
// request it receives and answers with a canned response.
type fakeServer struct {
	listener net.Listener
	response string

	requestLine string
	headers     map[string]string
	done        chan struct{}
}

func startFakeServer(t *testing.T, response string) *fakeServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &fakeServer{
		listener: listener,
		response: response,
		headers:  make(map[string]string),
		done:     make(chan struct{}),
	}
	t.Cleanup(func() { listener.Close() })

	go s.serveOne()
	return s
}

func (s *fakeServer) serveOne() {
	defer close(s.done)

	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	s.requestLine = strings.TrimRight(line, "\r\n")

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			s.headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}

	fmt.Fprint(conn, s.response)
}

func (s *fakeServer) addr() (string, string) {
	host, port, _ := net.SplitHostPort(s.listener.Addr().String())
	return host, port
}

func (s *fakeServer) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("fake server did not receive a request")
	}
}

func okResponse(body string) string {
	return fmt.Sprintf(
		"RTSP/1.0 200 OK\r\nCSeq: 1\r\nContent-Type: application/sdp\r\nContent-Length: %d\r\n\r\n%s",
		len(body), body)
}

func TestDescribeReturnsSessionDescription(t *testing.T) {
	server := startFakeServer(t, okResponse(testSDP))
	host, port := server.addr()

	client := NewClient(DefaultConfig())
	description, err := client.Describe("/by-name/Stage Box 1", host, port)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if description != testSDP {
		t.Errorf("description = %q, want %q", description, testSDP)
	}

	server.wait(t)

	wantURI := fmt.Sprintf("rtsp://%s/by-name/Stage Box 1", net.JoinHostPort(host, port))
	wantLine := "DESCRIBE " + wantURI + " RTSP/1.0"
	if server.requestLine != wantLine {
		t.Errorf("request line = %q, want %q", server.requestLine, wantLine)
	}
	if server.headers["Accept"] != "application/sdp" {
		t.Errorf("Accept = %q, want %q", server.headers["Accept"], "application/sdp")
	}
	if server.headers["CSeq"] != "1" {
		t.Errorf("CSeq = %q, want %q", server.headers["CSeq"], "1")
	}
}

func TestDescribeErrorStatus(t *testing.T) {
	server := startFakeServer(t, "RTSP/1.0 404 Not Found\r\nCSeq: 1\r\n\r\n")
	host, port := server.addr()

	client := NewClient(DefaultConfig())
	_, err := client.Describe("/by-name/ghost", host, port)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Describe error = %v, want *StatusError", err)
	}
	if statusErr.Code != 404 {
		t.Errorf("status code = %d, want 404", statusErr.Code)
	}
	if statusErr.Reason != "Not Found" {
		t.Errorf("reason = %q, want %q", statusErr.Reason, "Not Found")
	}
}

func TestDescribeMalformedResponse(t *testing.T) {
	server := startFakeServer(t, "HTTP/1.1 200 OK\r\n\r\n")
	host, port := server.addr()

	client := NewClient(DefaultConfig())
	if _, err := client.Describe("/by-name/cam1", host, port); !errors.Is(err, ErrBadResponse) {
		t.Errorf("Describe error = %v, want ErrBadResponse", err)
	}
}

func TestDescribeBodyTooLarge(t *testing.T) {
	body := strings.Repeat("a", 256)
	server := startFakeServer(t, okResponse(body))
	host, port := server.addr()

	cfg := DefaultConfig()
	cfg.MaxBodySize = 64
	client := NewClient(cfg)

	if _, err := client.Describe("/by-name/cam1", host, port); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("Describe error = %v, want ErrBodyTooLarge", err)
	}
}

func TestDescribeWithoutContentLengthReadsToEOF(t *testing.T) {
	response := "RTSP/1.0 200 OK\r\nCSeq: 1\r\n\r\n" + testSDP
	server := startFakeServer(t, response)
	host, port := server.addr()

	client := NewClient(DefaultConfig())
	description, err := client.Describe("/by-name/cam1", host, port)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if description != testSDP {
		t.Errorf("description = %q, want %q", description, testSDP)
	}
}

func TestDescribeConnectionRefused(t *testing.T) {
	// Grab a free port and release it so nothing is listening there.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port, _ := net.SplitHostPort(listener.Addr().String())
	listener.Close()

	cfg := DefaultConfig()
	cfg.DialTimeout = 500 * time.Millisecond
	client := NewClient(cfg)

	if _, err := client.Describe("/by-name/cam1", host, port); err == nil {
		t.Fatal("Describe succeeded against a closed port")
	}
}

func TestParseStatusLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantCode int
		wantErr  bool
	}{
		{"ok", "RTSP/1.0 200 OK", 200, false},
		{"not found", "RTSP/1.0 404 Not Found", 404, false},
		{"no reason", "RTSP/1.0 200", 200, false},
		{"http", "HTTP/1.1 200 OK", 0, true},
		{"garbage", "hello", 0, true},
		{"bad code", "RTSP/1.0 abc OK", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, err := parseStatusLine(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseStatusLine(%q) succeeded, want error", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseStatusLine(%q): %v", tt.line, err)
			}
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
		})
	}
}
