package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adstudio-backend/internal/models"
	"adstudio-backend/internal/supabase"
)

type HealthHandler struct {
	supabaseClient *supabase.Client
}

func NewHealthHandler(supabaseClient *supabase.Client) *HealthHandler {
	return &HealthHandler{supabaseClient: supabaseClient}
}

// Health godoc
// @Summary Health check
// @Description Returns ok when the service and its Supabase backend are reachable
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.supabaseClient != nil {
		// Head-only count query through PostgREST, cheap reachability probe.
		if _, _, err := h.supabaseClient.Supabase.From("batches").Select("id", "exact", true).Limit(1, "").Execute(); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "degraded"})
			return
		}
	}

	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
