package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio-backend/internal/jira"
	"adstudio-backend/internal/models"
	"adstudio-backend/internal/supabase"
)

// defaultSyncJQL pulls every issue with a due date so the campaign calendar
// mirrors the Jira schedule.
const defaultSyncJQL = "duedate is not EMPTY ORDER BY duedate ASC"

type JiraHandler struct {
	dbClient *supabase.DatabaseClient
	log      zerolog.Logger
}

func NewJiraHandler(dbClient *supabase.DatabaseClient, log zerolog.Logger) *JiraHandler {
	return &JiraHandler{dbClient: dbClient, log: log}
}

// Connect godoc
// @Summary Connect a Jira workspace
// @Description Verifies the credentials against Jira and stores them for calendar sync
// @Tags jira
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.JiraConnectRequest true "Jira credentials"
// @Success 200 {object} models.JiraConnectResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /jira/connect [post]
func (h *JiraHandler) Connect(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.JiraConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if req.OrgID == "" || req.BaseURL == "" || req.Username == "" || req.APIToken == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "orgId, baseUrl, username and apiToken are required"})
		return
	}
	if !strings.HasPrefix(req.BaseURL, "https://") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "baseUrl must use https"})
		return
	}

	client := jira.NewClient(req.BaseURL, req.Username, req.APIToken)
	if err := client.Verify(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Str("org_id", req.OrgID).Msg("jira credential verification failed")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "jira credentials rejected", Message: err.Error()})
		return
	}

	cred := &models.IntegrationCredential{
		UserID:      userID,
		OrgID:       req.OrgID,
		Integration: models.IntegrationJira,
		BaseURL:     strings.TrimSuffix(req.BaseURL, "/"),
		Username:    req.Username,
		APIToken:    req.APIToken,
	}
	if err := h.dbClient.UpsertIntegrationCredential(cred); err != nil {
		h.log.Error().Err(err).Str("org_id", req.OrgID).Msg("failed to store jira credential")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store credential"})
		return
	}

	c.JSON(http.StatusOK, models.JiraConnectResponse{OrgID: req.OrgID, Active: true})
}

// Disconnect godoc
// @Summary Disconnect a Jira workspace
// @Description Removes the stored credential and every calendar event synced from it
// @Tags jira
// @Produce json
// @Security BearerAuth
// @Param org_id path string true "Organization ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /jira/{org_id} [delete]
func (h *JiraHandler) Disconnect(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	orgID := c.Param("org_id")
	if _, err := h.dbClient.GetIntegrationCredential(userID, orgID, models.IntegrationJira); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "jira connection not found"})
		return
	}

	if err := h.dbClient.DeleteIntegrationCredential(userID, orgID, models.IntegrationJira); err != nil {
		h.log.Error().Err(err).Str("org_id", orgID).Msg("failed to disconnect jira")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to disconnect"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Sync godoc
// @Summary Sync Jira issues into the campaign calendar
// @Description Fetches issues with due dates and upserts them as calendar events keyed by issue key
// @Tags jira
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.JiraSyncRequest true "Sync options"
// @Success 200 {object} models.JiraSyncResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /jira/sync [post]
func (h *JiraHandler) Sync(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.JiraSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if req.OrgID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "orgId is required"})
		return
	}

	cred, err := h.dbClient.GetIntegrationCredential(userID, req.OrgID, models.IntegrationJira)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "jira connection not found"})
		return
	}

	jql := req.JQL
	if jql == "" {
		jql = defaultSyncJQL
	}

	client := jira.NewClient(cred.BaseURL, cred.Username, cred.APIToken)
	issues, err := client.SearchIssues(c.Request.Context(), jql, 100)
	if err != nil {
		h.log.Error().Err(err).Str("org_id", req.OrgID).Msg("jira search failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "jira search failed", Message: err.Error()})
		return
	}

	synced := 0
	for _, issue := range issues {
		event := &models.CalendarEvent{
			ID:          uuid.New(),
			UserID:      userID,
			Source:      models.IntegrationJira,
			ExternalKey: issue.Key,
			Title:       issue.Summary,
			Status:      issue.Status,
		}
		if issue.DueDate != "" {
			if due, err := time.Parse("2006-01-02", issue.DueDate); err == nil {
				event.DueDate.Time = due
				event.DueDate.Valid = true
			}
		}
		event.Metadata, _ = json.Marshal(map[string]interface{}{"org_id": req.OrgID})

		if err := h.dbClient.UpsertCalendarEvent(event); err != nil {
			h.log.Error().Err(err).Str("issue", issue.Key).Msg("failed to upsert calendar event")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store calendar events"})
			return
		}
		synced++
	}

	syncedAt := time.Now().UTC()
	if err := h.dbClient.TouchIntegrationSynced(userID, req.OrgID, models.IntegrationJira, syncedAt); err != nil {
		h.log.Warn().Err(err).Str("org_id", req.OrgID).Msg("failed to update last synced timestamp")
	}

	c.JSON(http.StatusOK, models.JiraSyncResponse{
		OrgID:        req.OrgID,
		SyncedEvents: synced,
		SyncedAt:     syncedAt,
	})
}

// Calendar godoc
// @Summary List the caller's calendar events
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CalendarListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /calendar [get]
func (h *JiraHandler) Calendar(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	events, err := h.dbClient.ListCalendarEvents(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list calendar events")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list calendar events"})
		return
	}

	responses := make([]models.CalendarEventResponse, len(events))
	for i, event := range events {
		resp := models.CalendarEventResponse{
			ID:          event.ID.String(),
			Source:      event.Source,
			ExternalKey: event.ExternalKey,
			Title:       event.Title,
			Status:      event.Status,
		}
		if event.DueDate.Valid {
			due := event.DueDate.Time
			resp.DueDate = &due
		}
		responses[i] = resp
	}

	c.JSON(http.StatusOK, models.CalendarListResponse{Events: responses})
}
