package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/roblartech/contact-relay/internal/app/bootstrap"
	appconfig "github.com/roblartech/contact-relay/internal/config"
	"github.com/roblartech/contact-relay/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	app, err := bootstrap.Build(context.Background(), cfg, logger, nil)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	logger.Info("contact relay lambda ready", "email_provider", cfg.EmailProvider)
	lambda.Start(newProxy(app.Handler))
}

type proxyFunc func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// newProxy adapts the router to API Gateway HTTP API (payload v2) events.
func newProxy(handler http.Handler) proxyFunc {
	adapter := httpadapter.NewV2(handler)
	return adapter.ProxyWithContext
}
