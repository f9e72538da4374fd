package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const _defaultTimeout = 30 * time.Second

//go:generate mockgen -source=client.go -destination=../../../test/unit/doubles/infra/rest/client_mock.go -package=rest -mock_names=Sender=MockSender

type Sender interface {
	Send(ctx context.Context, request Request) (Response, error)
	SendAsync(ctx context.Context, request Request) <-chan AsyncResponse
}

var _ Sender = (*Client)(nil)

// Client issues requests against one instance URL. Authentication is the
// responsibility of the supplied http.Client.
type Client struct {
	instanceURL string
	httpClient  *http.Client
	propagator  propagation.TextMapPropagator
}

func NewClient(instanceURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: _defaultTimeout}
	}
	return &Client{
		instanceURL: strings.TrimRight(instanceURL, "/"),
		httpClient:  httpClient,
		propagator:  b3.New(),
	}
}

func (c *Client) InstanceURL() string {
	return c.instanceURL
}

// Send executes the request and returns the response. A non-2xx status is
// returned together with an *HTTPError.
func (c *Client) Send(ctx context.Context, request Request) (Response, error) {
	ctx, span := otel.Tracer("push-registrar").Start(ctx, "rest.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", request.Method),
			attribute.String("http.path", request.Path),
		),
	)
	defer span.End()

	body, err := request.encodeBody()
	if err != nil {
		span.RecordError(err)
		return Response{}, fmt.Errorf("marshaling request fields: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, c.instanceURL+request.Path, reader)
	if err != nil {
		span.RecordError(err)
		return Response{}, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sending request")
		return Response{}, fmt.Errorf("sending HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return Response{}, fmt.Errorf("reading response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	response := Response{StatusCode: resp.StatusCode, Body: respBody}
	if !response.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return response, &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return response, nil
}

// SendAsync runs Send in its own goroutine. The returned channel receives
// exactly one AsyncResponse and is then closed.
func (c *Client) SendAsync(ctx context.Context, request Request) <-chan AsyncResponse {
	result := make(chan AsyncResponse, 1)
	go func() {
		defer close(result)
		response, err := c.Send(ctx, request)
		result <- AsyncResponse{Response: response, Err: err}
	}()
	return result
}
