package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustJay7/consumer-complaint-assistant/internal/analytics"
	"github.com/JustJay7/consumer-complaint-assistant/internal/chat"
	"github.com/JustJay7/consumer-complaint-assistant/internal/complaint"
	"github.com/JustJay7/consumer-complaint-assistant/internal/config"
	"github.com/JustJay7/consumer-complaint-assistant/internal/database"
	"github.com/JustJay7/consumer-complaint-assistant/internal/document"
	"github.com/JustJay7/consumer-complaint-assistant/internal/filing"
	"github.com/JustJay7/consumer-complaint-assistant/internal/llm"
	"github.com/JustJay7/consumer-complaint-assistant/internal/location"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

type fakeRenderer struct {
	err error
}

func (r fakeRenderer) Render(_ context.Context, _ *complaint.Record, _ complaint.ForumTier) (*document.Artifact, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &document.Artifact{
		Filename:    "consumer_complaint_1718000000000.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3 test"),
		Pages:       2,
	}, nil
}

type testEnv struct {
	router   *gin.Engine
	recorder *analytics.Recorder
}

func setupTestRouter(t *testing.T, renderer filing.Renderer, client llm.Client) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Location:           time.UTC,
		RecentRecordsLimit: 50,
	}
	log := logger.NewNop()

	recorder := analytics.NewRecorder(analytics.NewGormStore(db), cfg.Location, cfg.RecentRecordsLimit, log)
	svc := Services{
		Filing:   filing.NewService(renderer, recorder, time.Second, log),
		Recorder: recorder,
		Chat:     chat.NewRelay(client, chat.NewMemoryStore(time.Minute, 0), time.Second, log),
		Location: location.NewLookup(client, 10, time.Hour, time.Second, log),
	}

	router := gin.New()
	SetupRoutes(router, svc, log, cfg)
	return &testEnv{router: router, recorder: recorder}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func validForm() map[string]interface{} {
	return map[string]interface{}{
		"complainantName":       "Asha Verma",
		"complainantAddress":    "12 MG Road, Pune",
		"complainantPhone":      "9800000000",
		"complainantEmail":      "asha@example.com",
		"oppositePartyName":     "Acme Appliances",
		"oppositePartyAddress":  "Plot 4, MIDC, Pune",
		"productDescription":    "Washing machine",
		"transactionDate":       "2024-06-01",
		"transactionPlace":      "Pune",
		"amountPaid":            "45000",
		"paymentMode":           "UPI",
		"totalValue":            "60000",
		"issueDescription":      "Drum stopped spinning",
		"communicationAttempts": "Emails",
		"supportingDocuments":   "Invoice",
		"causeOfActionDate":     "2024-06-15",
		"causeOfActionPlace":    "Pune",
		"district":              "Pune",
		"state":                 "Maharashtra",
		"filingPlace":           "Pune",
		"reliefKinds":           []string{"refund", "compensation"},
		"reliefAmount":          "45000",
		"compensationAmount":    "15000",
		"declarationDate":       "2024-07-01",
		"declarationPlace":      "Pune",
	}
}

func TestHealthCheck(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	w := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, true, resp["database"])
}

func TestListForums(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	w := env.do(t, http.MethodGet, "/api/forums", nil)
	require.Equal(t, http.StatusOK, w.Code)

	forums := decode(t, w)["forums"].([]interface{})
	require.Len(t, forums, 3)
	assert.Equal(t, "District Forum", forums[0].(map[string]interface{})["label"])
	assert.Equal(t, "Above ₹10 Crore", forums[2].(map[string]interface{})["valueRange"])
}

func TestRecommendForum(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLabel  string
	}{
		{"district", "?value=50000", http.StatusOK, "District Forum"},
		{"boundary", "?value=10000000", http.StatusOK, "District Forum"},
		{"state", "?value=%E2%82%B92%2C00%2C00%2C000", http.StatusOK, "State Commission"},
		{"national", "?value=100000001", http.StatusOK, "National Commission"},
		{"missing", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/forums/recommend"+tt.query, nil)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLabel != "" {
				forum := decode(t, w)["forum"].(map[string]interface{})
				assert.Equal(t, tt.wantLabel, forum["label"])
			}
		})
	}
}

func TestValidateComplaint(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	t.Run("valid", func(t *testing.T) {
		resp := decode(t, env.do(t, http.MethodPost, "/api/complaints/validate", validForm()))
		assert.Equal(t, true, resp["valid"])
		assert.Equal(t, "✓ Valid date range. Gap: 14 days.", resp["dateMessage"])
	})

	t.Run("gap too short", func(t *testing.T) {
		form := validForm()
		form["causeOfActionDate"] = "2024-06-08"

		resp := decode(t, env.do(t, http.MethodPost, "/api/complaints/validate", form))
		assert.Equal(t, false, resp["valid"])
		assert.Equal(t, string(complaint.MinimumGapViolation), resp["code"])
		assert.Equal(t, "Minimum 10 days gap required. Current gap: 7 days.", resp["dateMessage"])
	})
}

func TestGenerateComplaint(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	w := env.do(t, http.MethodPost, "/api/complaints", validForm())
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="consumer_complaint_1718000000000.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "District Forum", w.Header().Get("X-Forum-Type"))
	assert.Equal(t, "true", w.Header().Get("X-Download-Recorded"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	total, err := env.recorder.Total(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGenerateComplaintRejected(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	tests := []struct {
		name     string
		mutate   func(map[string]interface{})
		wantCode complaint.Code
	}{
		{
			name:     "cause before transaction",
			mutate:   func(f map[string]interface{}) { f["causeOfActionDate"] = "2024-05-01" },
			wantCode: complaint.DateOrderViolation,
		},
		{
			name:     "no relief",
			mutate:   func(f map[string]interface{}) { f["reliefKinds"] = []string{} },
			wantCode: complaint.MissingReliefSelection,
		},
		{
			name:     "missing name",
			mutate:   func(f map[string]interface{}) { f["complainantName"] = "  " },
			wantCode: complaint.MissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)

			w := env.do(t, http.MethodPost, "/api/complaints", form)
			require.Equal(t, http.StatusBadRequest, w.Code)

			resp := decode(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, string(tt.wantCode), resp["code"])
		})
	}

	total, err := env.recorder.Total(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total, "rejected forms are never recorded")
}

func TestGenerateComplaintRenderFailure(t *testing.T) {
	renderErr := &document.RenderError{Stage: "rasterize", Err: errors.New("browser crashed")}
	env := setupTestRouter(t, fakeRenderer{err: renderErr}, llm.Unavailable{})

	w := env.do(t, http.MethodPost, "/api/complaints", validForm())
	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Failed to generate PDF. Please try again.", resp["error"])
	assert.Equal(t, "rasterize: browser crashed", resp["details"])

	total, err := env.recorder.Total(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestChat(t *testing.T) {
	client := llm.ClientFunc(func(_ context.Context, req llm.Request) (string, error) {
		if req.Settings != nil {
			return "", errors.New("no location data in this test")
		}
		return "**Yes**, you can file online.", nil
	})
	env := setupTestRouter(t, fakeRenderer{}, client)

	resp := decode(t, env.do(t, http.MethodPost, "/api/chat", gin.H{"message": "Can I file online?"}))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Yes, you can file online.", resp["message"])
	sessionID, _ := resp["sessionId"].(string)
	assert.NotEmpty(t, sessionID)

	w := env.do(t, http.MethodDelete, "/api/chat/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chat session cleared", decode(t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/chat", gin.H{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatFallback(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{"message": "Which forum?", "sessionId": "abc"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, chat.ErrUnavailable, resp["error"])
	assert.Equal(t, "abc", resp["sessionId"])
	assert.Contains(t, resp["message"], "Consumer Forum Jurisdiction")
}

func TestLocations(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	resp := decode(t, env.do(t, http.MethodGet, "/api/locations/states", nil))
	assert.Len(t, resp["states"], 37)

	resp = decode(t, env.do(t, http.MethodGet, "/api/locations/states/11/districts", nil))
	assert.Equal(t, true, resp["manualEntry"])
	assert.Empty(t, resp["districts"])

	w := env.do(t, http.MethodGet, "/api/locations/states/abc/districts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/locations/cache", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	env := setupTestRouter(t, fakeRenderer{}, llm.Unavailable{})

	resp := decode(t, env.do(t, http.MethodGet, "/api/analytics/summary", nil))
	summary := resp["summary"].(map[string]interface{})
	assert.Equal(t, float64(0), summary["totalDownloads"])
	assert.Equal(t, true, summary["recounted"])

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/complaints", validForm()).Code)
	}

	resp = decode(t, env.do(t, http.MethodGet, "/api/analytics/summary", nil))
	assert.Equal(t, float64(3), resp["summary"].(map[string]interface{})["totalDownloads"])

	resp = decode(t, env.do(t, http.MethodGet, "/api/analytics/today", nil))
	assert.Equal(t, float64(3), resp["today"])

	resp = decode(t, env.do(t, http.MethodGet, "/api/analytics/stats", nil))
	stats := resp["stats"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["byState"].(map[string]interface{})["Maharashtra"])
	assert.Equal(t, float64(3), stats["byValueRange"].(map[string]interface{})["District Forum (≤₹1Cr)"])

	resp = decode(t, env.do(t, http.MethodGet, "/api/analytics/records?limit=2", nil))
	assert.Equal(t, float64(2), resp["count"])

	w := env.do(t, http.MethodGet, "/api/analytics/records?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
