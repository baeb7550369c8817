package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/lead-intake/internal/app/bootstrap"
	appconfig "github.com/wolfman30/lead-intake/internal/config"
	"github.com/wolfman30/lead-intake/internal/leads"
	"github.com/wolfman30/lead-intake/pkg/logging"
)

// submitter is the slice of *leads.Handler the Lambda adapter needs.
type submitter interface {
	Handle(ctx context.Context, req leads.Request) leads.Response
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel).With("component", "submit-lead-lambda")

	// Built once per cold start and reused across invocations. lambda.Start never
	// returns, so the pool and Redis client live as long as the container.
	rt := bootstrap.BuildLeadHandler(context.Background(), cfg, logger, nil)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return handle(ctx, rt.Handler, evt)
	})
}

func handle(ctx context.Context, h submitter, evt events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := decodeBody(evt)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers: map[string]string{
				"Content-Type":                "application/json",
				"Access-Control-Allow-Origin": "*",
			},
			Body: `{"error":"Invalid request body"}`,
		}, nil
	}

	resp := h.Handle(ctx, leads.Request{
		Method:  strings.ToUpper(strings.TrimSpace(evt.HTTPMethod)),
		Headers: requestHeaders(evt),
		Body:    body,
	})
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

func decodeBody(evt events.APIGatewayProxyRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return decoded, nil
}

// requestHeaders prefers the single-value map and fills gaps from the multi-value one.
func requestHeaders(evt events.APIGatewayProxyRequest) map[string]string {
	headers := make(map[string]string, len(evt.Headers)+len(evt.MultiValueHeaders))
	for key, values := range evt.MultiValueHeaders {
		if len(values) > 0 {
			headers[key] = strings.Join(values, ", ")
		}
	}
	for key, value := range evt.Headers {
		headers[key] = value
	}
	return headers
}
