// Package serverless runs the gin router behind API Gateway proxy events.
package serverless

import (
	"context"
	"encoding/json"
	"net/http"

	"ecofinds/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

type Adapter struct {
	proxy  *ginadapter.GinLambda
	logger *logger.Logger
}

func New(router *gin.Engine, logger *logger.Logger) *Adapter {
	return &Adapter{
		proxy:  ginadapter.New(router),
		logger: logger,
	}
}

// Handle serves one proxy event. An event that cannot be turned into an
// HTTP request, such as a malformed base64 body, gets a 400 instead of a
// Lambda error.
func (a *Adapter) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := a.proxy.ProxyWithContext(ctx, req)
	if err != nil {
		a.logger.Warn("Rejected %s %s: %v", req.HTTPMethod, req.Path, err)
		body, _ := json.Marshal(map[string]string{"error": "Invalid request"})
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       string(body),
		}, nil
	}
	return resp, nil
}
