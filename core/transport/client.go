// Package transport executes authenticated POST exchanges with the
// conversation service, either with a fixed body or as a chunked stream.
//
// Every exchange runs on its own goroutine and reports its outcome as a
// decoded *responses.Response. Exchanges are not ordered relative to each
// other and cannot be cancelled once started.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/koscakluka/pullstring-core/core/responses"
)

const (
	modeBuffered = "buffered"
	modeStreamed = "streamed"
)

// Request is one exchange. Endpoint is resolved against the client's base
// URL.
type Request struct {
	Endpoint string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

type ResponseHandler func(*responses.Response)

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base url: %w", err)
	}
	// Endpoints resolve below the base path, so it has to end in a slash.
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
		if parsed.RawPath != "" {
			parsed.RawPath += "/"
		}
	}

	client := &Client{
		baseURL: parsed,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Post runs the exchange on a new goroutine and hands the decoded response
// to onResponse.
func (c *Client) Post(ctx context.Context, req Request, onResponse ResponseHandler) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		response := c.doRecovered(ctx, req)
		if onResponse != nil {
			onResponse(response)
		}
	}()
}

// Do runs the exchange on the calling goroutine.
func (c *Client) Do(ctx context.Context, req Request) *responses.Response {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "post conversation")
	defer span.End()
	started := time.Now()
	callID := uuid.NewString()
	span.SetAttributes(
		attribute.String("call.id", callID),
		attribute.String("request.endpoint", req.Endpoint),
		attribute.Int("request.body_size", len(req.Body)),
	)

	response := c.exchange(ctx, span, req, func(target string) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(req.Body))
	})
	record(ctx, span, modeBuffered, callID, started, response)
	return response
}

func (c *Client) doRecovered(ctx context.Context, req Request) (response *responses.Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			response = responses.NewFailure(responses.CodeTransportFailure, fmt.Sprintf("post worker panicked: %v", recovered))
		}
	}()
	return c.Do(ctx, req)
}

func (c *Client) resolve(req Request) (string, error) {
	endpoint, err := url.Parse(req.Endpoint)
	if err != nil {
		return "", fmt.Errorf("error parsing endpoint: %w", err)
	}

	target := c.baseURL.ResolveReference(endpoint)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}
	return target.String(), nil
}

// exchange sends the request built by newRequest and decodes whatever comes
// back. Failures before a status line is read use CodeTransportFailure.
func (c *Client) exchange(
	ctx context.Context,
	span trace.Span,
	req Request,
	newRequest func(target string) (*http.Request, error),
) *responses.Response {
	target, err := c.resolve(req)
	if err != nil {
		return transportFailure(span, err)
	}

	httpReq, err := newRequest(target)
	if err != nil {
		return transportFailure(span, fmt.Errorf("error creating HTTP request: %w", err))
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	span.AddEvent("request started")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return transportFailure(span, fmt.Errorf("error sending request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(span, fmt.Errorf("error reading response body: %w", err))
	}

	location := resp.Header.Get("Location")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responses.DecodeError(body, resp.StatusCode, location)
	}
	return responses.Decode(body, location)
}

func transportFailure(span trace.Span, err error) *responses.Response {
	span.RecordError(err)
	logger.Warn("conversation exchange failed", "error", err)
	return responses.NewFailure(responses.CodeTransportFailure, err.Error())
}

func record(ctx context.Context, span trace.Span, mode, callID string, started time.Time, response *responses.Response) {
	outcome := "success"
	if !response.Status.Success {
		outcome = "failure"
		span.SetStatus(codes.Error, response.Status.Message)
		logger.DebugContext(ctx, "conversation exchange returned failure",
			"call_id", callID,
			"mode", mode,
			"code", response.Status.Code,
			"message", response.Status.Message,
		)
	}
	span.SetAttributes(
		attribute.Int("response.status.code", response.Status.Code),
		attribute.Bool("response.status.success", response.Status.Success),
	)

	attrs := metric.WithAttributes(attribute.String("mode", mode), attribute.String("outcome", outcome))
	requestCounter.Add(ctx, 1, attrs)
	requestDuration.Record(ctx, time.Since(started).Seconds(), attrs)
}
