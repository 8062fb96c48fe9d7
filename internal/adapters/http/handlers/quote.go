package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

const (
	// ExportFilename is the attachment name of the export artifact.
	ExportFilename = "quotes.json"

	// ImportFormField is the multipart field carrying an uploaded export.
	ImportFormField = "file"
)

// QuoteHandler handles quote and category endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// ListQuotes handles GET /api/v1/quotes.
// Quotes come back in insertion order, paged by an opaque position cursor.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	offset, err := req.Offset()
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	all := dto.NewQuoteResponses(h.service.ListQuotes(c.Request.Context()))

	c.JSON(http.StatusOK, dto.Paginate(all, offset, req.GetLimit()))
}

// AddQuote handles POST /api/v1/quotes.
// Duplicates are accepted. A failed save still returns 201 with
// persisted=false since the quote is live in memory.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	q, err := h.service.AddQuote(c.Request.Context(), req.Text, req.Category)
	if err != nil && !domain.IsPersistence(err) {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateQuoteResponse{
		Quote:            dto.NewQuoteResponse(q),
		MutationResponse: dto.NewMutationResponse(err),
	})
}

// RandomQuote handles GET /api/v1/quotes/random.
// The optional category query overrides the active filter for this call.
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	var req dto.RandomQuoteRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	sel, err := h.service.RandomQuote(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSelectionResponse(sel))
}

// CurrentQuote handles GET /api/v1/quotes/current.
func (h *QuoteHandler) CurrentQuote(c *gin.Context) {
	sel, err := h.service.CurrentQuote(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSelectionResponse(sel))
}

// Export handles GET /api/v1/quotes/export as a file download.
func (h *QuoteHandler) Export(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import handles POST /api/v1/quotes/import. The body is a quotes.json
// document; every record is appended without dedup.
func (h *QuoteHandler) Import(c *gin.Context) {
	payload, err := readImportPayload(c)
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "request body could not be read")
		return
	}

	ctx := c.Request.Context()

	n, err := h.service.Import(ctx, payload)
	if err != nil && !domain.IsPersistence(err) {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{
		Imported:         n,
		Total:            len(h.service.ListQuotes(ctx)),
		MutationResponse: dto.NewMutationResponse(err),
	})
}

// readImportPayload returns the multipart "file" field when the request is a
// form upload, otherwise the raw body.
func readImportPayload(c *gin.Context) ([]byte, error) {
	if c.ContentType() != "multipart/form-data" {
		return io.ReadAll(c.Request.Body)
	}

	header, err := c.FormFile(ImportFormField)
	if err != nil {
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// Categories handles GET /api/v1/categories.
func (h *QuoteHandler) Categories(c *gin.Context) {
	labels, filter := h.service.Categories(c.Request.Context())

	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: labels, Filter: filter})
}

// SelectFilter handles PUT /api/v1/categories/filter. An unknown category
// is not an error: the effective filter falls back to "all".
func (h *QuoteHandler) SelectFilter(c *gin.Context) {
	var req dto.SelectFilterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	effective, err := h.service.SelectCategory(c.Request.Context(), req.Category)
	if err != nil && !domain.IsPersistence(err) {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FilterResponse{
		Filter:           effective,
		MutationResponse: dto.NewMutationResponse(err),
	})
}

// RegisterQuoteRoutes registers quote and category routes on rg.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.RandomQuote)
	quotes.GET("/current", h.CurrentQuote)
	quotes.GET("/export", h.Export)
	quotes.POST("/import", h.Import)

	categories := rg.Group("/categories")
	categories.GET("", h.Categories)
	categories.PUT("/filter", h.SelectFilter)
}
