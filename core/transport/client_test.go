package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/koscakluka/pullstring-core/core/responses"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(server.URL+"/v1/", WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func awaitResponse(t *testing.T, responsesCh <-chan *responses.Response) *responses.Response {
	t.Helper()
	select {
	case response := <-responsesCh:
		return response
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for response")
		return nil
	}
}

func TestPostSendsRequestAndDecodesResponse(t *testing.T) {
	type captured struct {
		path, query, auth, contentType, body string
	}
	capturedCh := make(chan captured, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capturedCh <- captured{
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		}
		w.Header().Set("Location", "https://example.test/v1/conversation/c-1")
		fmt.Fprint(w, `{"conversation":"c-1","outputs":[{"type":"dialog","text":"hi"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	responsesCh := make(chan *responses.Response, 1)
	client.Post(context.Background(), Request{
		Endpoint: "conversation",
		Query:    url.Values{"asr_language": {"en-US"}},
		Header:   http.Header{"Authorization": {"Bearer key"}, "Content-Type": {"application/json"}},
		Body:     []byte(`{"text":"hello"}`),
	}, func(response *responses.Response) { responsesCh <- response })

	response := awaitResponse(t, responsesCh)
	if !response.Status.Success || response.ConversationID != "c-1" {
		t.Fatalf("unexpected response: %+v", response)
	}
	if response.Endpoint != "https://example.test/v1/conversation/c-1" {
		t.Fatalf("expected endpoint from Location header, got %q", response.Endpoint)
	}

	got := <-capturedCh
	if got.path != "/v1/conversation" {
		t.Fatalf("expected path /v1/conversation, got %q", got.path)
	}
	if got.query != "asr_language=en-US" {
		t.Fatalf("unexpected query %q", got.query)
	}
	if got.auth != "Bearer key" || got.contentType != "application/json" {
		t.Fatalf("unexpected headers: %+v", got)
	}
	if got.body != `{"text":"hello"}` {
		t.Fatalf("unexpected body %q", got.body)
	}
}

func TestDoServerErrors(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		body         string
		expectedCode int
	}{
		{name: "structured", status: http.StatusNotFound, body: `{"error":{"status":404,"message":"missing"}}`, expectedCode: 404},
		{name: "malformed", status: http.StatusBadGateway, body: `<html>`, expectedCode: responses.CodeParsing},
		{name: "no error object", status: http.StatusForbidden, body: `{"detail":"nope"}`, expectedCode: responses.CodeParsing},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(testCase.status)
				fmt.Fprint(w, testCase.body)
			}))
			defer server.Close()

			response := newTestClient(t, server).Do(context.Background(), Request{Endpoint: "conversation"})
			if response.Status.Success || response.Status.Code != testCase.expectedCode {
				t.Fatalf("expected failure with code %d, got %+v", testCase.expectedCode, response.Status)
			}
		})
	}
}

func TestDoTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	response := client.Do(context.Background(), Request{Endpoint: "conversation"})
	if response.Status.Success || response.Status.Code != responses.CodeTransportFailure {
		t.Fatalf("expected transport failure, got %+v", response.Status)
	}
	if response.Status.Message == "" {
		t.Fatalf("expected failure message")
	}
}

func TestDoIgnoresCallerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	response := newTestClient(t, server).Do(ctx, Request{Endpoint: "conversation"})
	if !response.Status.Success {
		t.Fatalf("expected cancelled context to be ignored, got %+v", response.Status)
	}
}

func TestOpenStreamsChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		chunked := len(r.TransferEncoding) > 0 && r.TransferEncoding[0] == "chunked"
		fmt.Fprintf(w, `{"asr_hypothesis":%q,"etag":"%t","conversation":%q}`, string(body), chunked, r.Header.Get("Content-Type"))
	}))
	defer server.Close()

	responsesCh := make(chan *responses.Response, 1)
	writeResults := make(chan []bool, 1)
	newTestClient(t, server).Open(context.Background(), Request{
		Endpoint: "conversation",
		Header:   http.Header{"Content-Type": {"audio/l16; rate=16000"}},
	}, func(stream *Stream) {
		var accepted []bool
		for _, chunk := range []string{"ab", "cd", "ef"} {
			accepted = append(accepted, stream.Write([]byte(chunk)))
		}
		stream.Close()
		accepted = append(accepted, stream.Write([]byte("gh")))
		writeResults <- accepted
	}, func(response *responses.Response) { responsesCh <- response })

	response := awaitResponse(t, responsesCh)
	if got := <-writeResults; fmt.Sprint(got) != "[true true true false]" {
		t.Fatalf("expected three accepted writes and one dropped, got %v", got)
	}
	if !response.Status.Success {
		t.Fatalf("unexpected failure: %+v", response.Status)
	}
	if response.ASRHypothesis != "abcdef" {
		t.Fatalf("expected streamed body %q, got %q", "abcdef", response.ASRHypothesis)
	}
	if response.ETag != "true" {
		t.Fatalf("expected chunked transfer encoding")
	}
	if response.ConversationID != "audio/l16; rate=16000" {
		t.Fatalf("unexpected content type %q", response.ConversationID)
	}
}

func TestOpenFailureReportsBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	opened := make(chan struct{}, 1)
	responsesCh := make(chan *responses.Response, 1)
	client.Open(context.Background(), Request{Endpoint: "conversation"},
		func(*Stream) { opened <- struct{}{} },
		func(response *responses.Response) { responsesCh <- response },
	)

	response := awaitResponse(t, responsesCh)
	if response.Status.Success || response.Status.Code != responses.CodeBadRequest {
		t.Fatalf("expected bad request failure, got %+v", response.Status)
	}
	select {
	case <-opened:
		t.Fatalf("expected stream not to open")
	default:
	}
}

func TestResolveKeepsBasePath(t *testing.T) {
	for _, baseURL := range []string{"https://conversation.pullstring.ai/v1/", "https://conversation.pullstring.ai/v1"} {
		t.Run(baseURL, func(t *testing.T) {
			client, err := NewClient(baseURL)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			target, err := client.resolve(Request{Endpoint: "conversation/abc", Query: url.Values{"account": {"a b"}}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(target, "https://conversation.pullstring.ai/v1/conversation/abc?") || !strings.Contains(target, "account=a+b") {
				t.Fatalf("unexpected target %q", target)
			}
		})
	}
}

func TestDoWithBaseURLWithoutTrailingSlash(t *testing.T) {
	paths := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/v1", WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response := client.Do(context.Background(), Request{Endpoint: "conversation"})
	if !response.Status.Success {
		t.Fatalf("unexpected failure %+v", response.Status)
	}
	if path := <-paths; path != "/v1/conversation" {
		t.Fatalf("expected path /v1/conversation, got %q", path)
	}
}
