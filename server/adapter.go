package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/procedure"
	"github.com/kbukum/rpckit/router"
)

// inputParam is the query parameter carrying a query's JSON input.
const inputParam = "input"

// ContextFunc builds the call context of a request, e.g. from its
// Authorization header. A failure is sent to the client as the call's error.
type ContextFunc[C any] func(c *gin.Context) (C, error)

// Mount exposes r under basePath on rg:
//
//	GET  {basePath}/{path}?input=<json>   query
//	POST {basePath}/{path}                mutation, body is the JSON input
//
// A POST body of the form {"input": ...} is unwrapped. Successful calls
// answer 200 with Response; failures answer with the error's HTTP status and
// an errors.ErrorResponse body.
func Mount[C any](rg gin.IRouter, basePath string, r *router.Router[C], createContext ContextFunc[C]) {
	h := &rpcHandler[C]{router: r, createContext: createContext}
	group := rg.Group(basePath)
	group.GET("/*path", h.handle(procedure.TypeQuery, queryInput))
	group.POST("/*path", h.handle(procedure.TypeMutation, bodyInput))
}

type rpcHandler[C any] struct {
	router        *router.Router[C]
	createContext ContextFunc[C]
}

type inputFunc func(c *gin.Context) (any, error)

func (h *rpcHandler[C]) handle(typ procedure.Type, input inputFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Param("path"), "/")

		var callCtx C
		if h.createContext != nil {
			var err error
			if callCtx, err = h.createContext(c); err != nil {
				RespondWithError(c, err)
				return
			}
		}

		raw, err := input(c)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		out, err := h.router.Call(c.Request.Context(), typ, path, callCtx, raw)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondData(c, out)
	}
}

func queryInput(c *gin.Context) (any, error) {
	encoded, ok := c.GetQuery(inputParam)
	if !ok || encoded == "" {
		return nil, nil
	}
	var raw any
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, errors.BadRequest("input query parameter is not valid JSON").WithCause(err)
	}
	return raw, nil
}

func bodyInput(c *gin.Context) (any, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.BadRequest("request body too large").WithCause(err)
		}
		return nil, errors.BadRequest("failed to read request body").WithCause(err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.BadRequest("request body is not valid JSON").WithCause(err)
	}
	if m, ok := raw.(map[string]any); ok && len(m) == 1 {
		if v, ok := m[inputParam]; ok {
			return v, nil
		}
	}
	return raw, nil
}
