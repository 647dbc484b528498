package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstudio-backend/internal/config"
	"adstudio-backend/internal/handlers"
	"adstudio-backend/internal/middleware"
	"adstudio-backend/internal/models"
)

// newBulkRouter wires the bulk handler behind a stub auth layer. The backend
// clients are nil, which is fine for the validation paths under test: every
// rejection happens before anything is persisted.
func newBulkRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{MaxCSVRows: 50, DefaultBatchSize: 3}
	handler := handlers.NewBulkHandler(cfg, nil, nil, nil, zerolog.Nop())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.New().String())
	})
	router.POST("/bulk-csv-process", handler.ProcessCSV)
	return router
}

func postBulk(t *testing.T, router *gin.Engine, body models.BulkCSVRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest("POST", "/bulk-csv-process", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validRow() map[string]string {
	return map[string]string{
		"Product": "Citrus Soda",
		"Variant": "Zero Sugar",
		"Size":    "330ml",
		"Region":  "EMEA",
		"Theme":   "Summer",
	}
}

func TestProcessCSV_EmptyData(t *testing.T) {
	router := newBulkRouter()
	w := postBulk(t, router, models.BulkCSVRequest{Department: "marketing"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least one row")
}

func TestProcessCSV_TooManyRows(t *testing.T) {
	router := newBulkRouter()

	rows := make([]map[string]string, 51)
	for i := range rows {
		rows[i] = validRow()
	}
	w := postBulk(t, router, models.BulkCSVRequest{CSVData: rows, Department: "marketing"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum of 50 rows")
}

func TestProcessCSV_UnknownDepartment(t *testing.T) {
	router := newBulkRouter()
	w := postBulk(t, router, models.BulkCSVRequest{
		CSVData:    []map[string]string{validRow()},
		Department: "finance",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "finance")
}

func TestProcessCSV_MissingColumnNamed(t *testing.T) {
	router := newBulkRouter()

	row := validRow()
	delete(row, "Region")
	w := postBulk(t, router, models.BulkCSVRequest{
		CSVData:    []map[string]string{row},
		Department: "marketing",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required columns")
	assert.Contains(t, w.Body.String(), "Region")
	assert.NotContains(t, w.Body.String(), "Product,")
}

func TestProcessCSV_MissingMultipleColumns(t *testing.T) {
	router := newBulkRouter()

	row := validRow()
	delete(row, "Size")
	delete(row, "Theme")
	w := postBulk(t, router, models.BulkCSVRequest{
		CSVData:    []map[string]string{row},
		Department: "marketing",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Size")
	assert.Contains(t, w.Body.String(), "Theme")
}

func TestProcessCSV_BlankValuesAreNotASchemaViolation(t *testing.T) {
	// A present column with empty values must pass the schema check. The nil
	// storage client then panics, which gin's recovery turns into a 500; the
	// point is that none of the 400 validators fire.
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{MaxCSVRows: 50, DefaultBatchSize: 3}
	handler := handlers.NewBulkHandler(cfg, nil, nil, nil, zerolog.Nop())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.New().String())
	})
	router.POST("/bulk-csv-process", handler.ProcessCSV)

	row := map[string]string{
		"Product": "Citrus Soda",
		"Variant": "",
		"Size":    "",
		"Region":  "EMEA",
		"Theme":   "",
	}
	w := postBulk(t, router, models.BulkCSVRequest{
		CSVData:    []map[string]string{row},
		Department: "marketing",
	})

	assert.NotEqual(t, http.StatusBadRequest, w.Code)
}
