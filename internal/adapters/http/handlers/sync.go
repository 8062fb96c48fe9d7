package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/app"
)

// SyncHandler exposes the manual reconcile trigger.
type SyncHandler struct {
	service *app.QuoteService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(service *app.QuoteService) *SyncHandler {
	return &SyncHandler{service: service}
}

// Sync handles POST /api/v1/sync. The result body is always returned;
// the status reflects the outcome:
//   - 200 for updated and no_change
//   - 409 when a scheduled cycle is already running
//   - 503 when no remote source could be fetched
func (h *SyncHandler) Sync(c *gin.Context) {
	result := h.service.Sync(c.Request.Context())

	status := http.StatusOK

	switch result.Outcome {
	case app.OutcomeSkipped:
		status = http.StatusConflict
	case app.OutcomeFetchFailed:
		status = http.StatusServiceUnavailable
	case app.OutcomeUpdated, app.OutcomeNoChange:
	}

	c.JSON(status, toSyncResponse(result))
}

// RegisterSyncRoutes registers the sync route on rg.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.Sync)
}

func toSyncResponse(r app.SyncResult) dto.SyncResponse {
	sources := make([]dto.SourceReportResponse, len(r.Sources))
	for i, s := range r.Sources {
		sources[i] = dto.SourceReportResponse{
			Source:  s.Source,
			Fetched: s.Fetched,
			Skipped: s.Skipped,
		}
		if s.Err != nil {
			sources[i].Error = s.Err.Error()
		}
	}

	return dto.SyncResponse{
		CycleID:          r.CycleID,
		Outcome:          string(r.Outcome),
		Added:            r.Added,
		Duplicates:       r.Duplicates,
		Skipped:          r.Skipped,
		Sources:          sources,
		StartedAt:        r.StartedAt,
		DurationMS:       r.Duration.Milliseconds(),
		MutationResponse: dto.NewMutationResponse(r.PersistErr),
	}
}
