package serverless

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"ecofinds/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zipHeader is not valid UTF-8, so the proxy must base64 encode it.
var zipHeader = []byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00, 0x08, 0x08, 0xff, 0xfe}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"category": c.QueryArray("category"),
			"auth":     c.GetHeader("Authorization"),
		})
	})
	r.POST("/body", func(c *gin.Context) {
		var in struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": in.Name})
	})
	r.GET("/file", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", zipHeader)
	})
	return r
}

func TestHandle_QueryAndHeaders(t *testing.T) {
	a := New(newRouter(), logger.NewNop())

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:                      http.MethodGet,
		Path:                            "/echo",
		MultiValueQueryStringParameters: map[string][]string{"category": {"Books", "Electronics"}},
		Headers:                         map[string]string{"Authorization": "Bearer abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"category":["Books","Electronics"],"auth":"Bearer abc"}`, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
}

func TestHandle_Base64Body(t *testing.T) {
	a := New(newRouter(), logger.NewNop())

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/body",
		Headers:         map[string]string{"Content-Type": "application/json"},
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"name":"lamp"}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"data":"lamp"}`, resp.Body)

	resp, err = a.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/body",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid request"}`, resp.Body)
}

func TestHandle_BinaryResponse(t *testing.T) {
	a := New(newRouter(), logger.NewNop())

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/file"})
	require.NoError(t, err)
	require.True(t, resp.IsBase64Encoded)

	raw, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, zipHeader, raw)
}

func TestHandle_NotFound(t *testing.T) {
	a := New(newRouter(), logger.NewNop())

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/missing"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
