package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookgraph/internal/microservices/graphql-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// GraphQLRequest is the standard POST body.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	schema  graphql.Schema
	timeout time.Duration
	logger  *slog.Logger
}

func NewGraphQLHandler(schema graphql.Schema, timeout time.Duration, logger *slog.Logger) *GraphQLHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphQLHandler{schema: schema, timeout: timeout, logger: logger}
}

func (h *GraphQLHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Post)
	rg.GET("", h.Get)
}

// Post handles POST /graphql
func (h *GraphQLHandler) Post(c *gin.Context) {
	var in GraphQLRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.execute(c, in)
}

// Get handles GET /graphql?query=...&variables=... for read-only operations.
func (h *GraphQLHandler) Get(c *gin.Context) {
	in := GraphQLRequest{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Variables); err != nil {
			badRequest(c, "variables must be a JSON object")
			return
		}
	}
	if isMutation(in.Query, in.OperationName) {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"errors": []gin.H{{"message": "mutations must use POST"}}})
		return
	}
	h.execute(c, in)
}

func (h *GraphQLHandler) execute(c *gin.Context, in GraphQLRequest) {
	if in.Query == "" {
		badRequest(c, "query is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  in.Query,
		VariableValues: in.Variables,
		OperationName:  in.OperationName,
		Context:        ctx,
	})
	if result.HasErrors() {
		h.logger.Debug("graphql_errors",
			"operation", in.OperationName,
			"errors", len(result.Errors),
			"first", result.Errors[0].Message,
			"request_id", middleware.RequestIDFrom(c.Request.Context()),
		)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		h.logger.Warn("graphql_timeout", "operation", in.OperationName, "timeout", h.timeout.String())
	}
	c.JSON(http.StatusOK, result)
}

// isMutation reports whether the selected operation in query is a mutation.
// Unparsable documents return false and are rejected by the executor instead.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": msg}}})
}
