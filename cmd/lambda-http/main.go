package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"autotask-ml/internal/bootstrap"
	"autotask-ml/internal/shared/config"
	"autotask-ml/internal/shared/telemetry"
)

type lambdaHandler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

func buildRouter(ctx context.Context) (*gin.Engine, error) {
	app, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		return nil, err
	}
	return app.Router, nil
}

// newHandler builds the router once, on the first invocation, and proxies
// API Gateway v2 requests to it.
func newHandler(build func(ctx context.Context) (*gin.Engine, error)) lambdaHandler {
	var (
		initOnce  sync.Once
		initErr   error
		ginLambda *ginadapter.GinLambdaV2
	)

	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		initOnce.Do(func() {
			router, err := build(ctx)
			if err != nil {
				initErr = err
				return
			}
			ginLambda = ginadapter.NewV2(router)
		})
		if initErr != nil {
			telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr.Error()})
			return errorResponse("bootstrap failed"), initErr
		}
		if ginLambda == nil {
			return errorResponse("router not initialized"), nil
		}
		return ginLambda.ProxyWithContext(ctx, req)
	}
}

func errorResponse(message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": "internal", "message": message},
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(newHandler(buildRouter))
}
