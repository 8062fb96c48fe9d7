package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
)

// noRoute answers unknown paths with the standard error envelope instead
// of gin's plain-text 404.
func noRoute(c *gin.Context) {
	dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
}

// noMethod answers a known path with an unsupported method.
func noMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrorCodeBadRequest,
		"method "+c.Request.Method+" not allowed on "+c.Request.URL.Path,
	).WithTraceID(dto.GetTraceID(c)))
}
