package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JustJay7/consumer-complaint-assistant/internal/complaint"
	"github.com/JustJay7/consumer-complaint-assistant/internal/config"
	"github.com/JustJay7/consumer-complaint-assistant/internal/document"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	svc    Services
	logger *logger.Logger
	cfg    *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc Services, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: logger,
		cfg:    cfg,
	}
}

type forumView struct {
	Tier        string   `json:"tier"`
	Label       string   `json:"label"`
	Keyword     string   `json:"keyword"`
	Commission  string   `json:"commission"`
	ValueRange  string   `json:"valueRange"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

func newForumView(t complaint.ForumTier) forumView {
	return forumView{
		Tier:        t.String(),
		Label:       t.Label(),
		Keyword:     t.Keyword(),
		Commission:  t.Commission(),
		ValueRange:  t.ValueRange(),
		Description: t.Description(),
		Features:    t.Features(),
	}
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	dbHealthy := h.svc.Recorder.Ping(c.Request.Context()) == nil

	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"database":     dbHealthy,
		"cache":        h.svc.Location.CacheStats(),
		"chatSessions": h.svc.Chat.Sessions(),
		"time":         time.Now().Unix(),
	})
}

// ListForums describes the three consumer commissions
func (h *Handlers) ListForums(c *gin.Context) {
	forums := make([]forumView, 0, len(complaint.ForumTiers))
	for _, t := range complaint.ForumTiers {
		forums = append(forums, newForumView(t))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"forums":  forums,
	})
}

// RecommendForum classifies a raw claim value
func (h *Handlers) RecommendForum(c *gin.Context) {
	raw := c.Query("value")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required parameter: value",
		})
		return
	}

	value := complaint.ParseClaimValue(raw)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"value":   value,
		"forum":   newForumView(complaint.Classify(value)),
	})
}

// ValidateComplaint gives live feedback on a partially filled form
func (h *Handlers) ValidateComplaint(c *gin.Context) {
	var rec complaint.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	p := h.svc.Filing.Preview(&rec)
	resp := gin.H{
		"success":     true,
		"valid":       p.Err == nil,
		"dateMessage": p.Dates.Message(),
		"gapDays":     p.Dates.GapDays,
		"forum":       newForumView(p.Tier),
	}

	var ve *complaint.ValidationError
	if errors.As(p.Err, &ve) {
		resp["code"] = ve.Code
		resp["error"] = ve.Message
		resp["fields"] = ve.Fields
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateComplaint validates the form and streams back the complaint PDF
func (h *Handlers) GenerateComplaint(c *gin.Context) {
	var rec complaint.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	out, err := h.svc.Filing.Submit(c.Request.Context(), &rec)
	if err != nil {
		var ve *complaint.ValidationError
		var re *document.RenderError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   ve.Message,
				"code":    ve.Code,
				"fields":  ve.Fields,
			})
		case errors.As(err, &re):
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to generate PDF. Please try again.",
				"details": re.Error(),
			})
		default:
			h.logger.Error("Complaint generation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Internal server error",
			})
		}
		return
	}

	art := out.Artifact
	c.Header("Content-Disposition", `attachment; filename="`+art.Filename+`"`)
	c.Header("X-Forum-Type", out.Tier.Label())
	c.Header("X-Page-Count", strconv.Itoa(art.Pages))
	c.Header("X-Download-Recorded", strconv.FormatBool(out.Recorded))
	c.Data(http.StatusOK, art.ContentType, art.Data)
}

// SendChat relays one message to the assistant
func (h *Handlers) SendChat(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		SessionID string `json:"sessionId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Message is required",
		})
		return
	}

	c.JSON(http.StatusOK, h.svc.Chat.Send(c.Request.Context(), req.SessionID, req.Message))
}

// ClearChat forgets a conversation
func (h *Handlers) ClearChat(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Chat.Clear(c.Param("sessionId")))
}

// ListStates returns the state pick list
func (h *Handlers) ListStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"states":  h.svc.Location.States(c.Request.Context()),
	})
}

// ListDistricts returns the district pick list for one state
func (h *Handlers) ListDistricts(c *gin.Context) {
	stateID, err := strconv.Atoi(c.Param("id"))
	if err != nil || stateID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid state ID",
		})
		return
	}

	d := h.svc.Location.Districts(c.Request.Context(), stateID)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"state_id":    d.StateID,
		"districts":   d.Districts,
		"manualEntry": d.ManualEntry,
	})
}

// ClearLocationCache drops cached state and district lists
func (h *Handlers) ClearLocationCache(c *gin.Context) {
	h.svc.Location.Clear()
	h.logger.Info("Location cache cleared")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Location cache cleared",
	})
}

// AnalyticsSummary returns the running download total
func (h *Handlers) AnalyticsSummary(c *gin.Context) {
	summary, err := h.svc.Recorder.Summary(c.Request.Context())
	if err != nil {
		h.analyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}

// AnalyticsToday counts documents generated since local midnight
func (h *Handlers) AnalyticsToday(c *gin.Context) {
	count, err := h.svc.Recorder.Today(c.Request.Context())
	if err != nil {
		h.analyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"today":    count,
		"timezone": h.cfg.Location.String(),
	})
}

// AnalyticsStats returns the dashboard breakdowns
func (h *Handlers) AnalyticsStats(c *gin.Context) {
	stats, err := h.svc.Recorder.Detailed(c.Request.Context())
	if err != nil {
		h.analyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// AnalyticsRecords lists the most recent downloads
func (h *Handlers) AnalyticsRecords(c *gin.Context) {
	limit := h.cfg.RecentRecordsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid limit",
			})
			return
		}
		limit = n
	}

	records, err := h.svc.Recorder.Recent(c.Request.Context(), limit)
	if err != nil {
		h.analyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"records": records,
	})
}

func (h *Handlers) analyticsError(c *gin.Context, err error) {
	h.logger.Error("Analytics read failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Failed to load analytics",
	})
}
