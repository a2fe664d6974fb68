package integration

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"companyexport/internal/config"
	"companyexport/internal/formatter"
	"companyexport/internal/server"
)

func TestServerFlow_ExportEndpoint(t *testing.T) {
	api, _ := newFixtureAPI(t)

	cfg := config.Default()
	cfg.API.BaseURL = api.URL
	cfg.API.SandboxURL = api.URL

	srv := server.New(cfg, server.NewCrawlerFactory(cfg.API, nil), nil, prometheus.NewRegistry())

	httpSrv := httptest.NewServer(srv.Routes())
	t.Cleanup(httpSrv.Close)

	body := `{"token":"integration-token","atecoCode":"6201","province":"rm","limit":2,"maxResults":10}`

	resp, err := http.Post(httpSrv.URL+"/api/export", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success           bool           `json:"success"`
		Total             int            `json:"total"`
		FileName          string         `json:"fileName"`
		FileContentBase64 string         `json:"fileContentBase64"`
		Metadata          map[string]any `json:"metadata"`
		ExportID          string         `json:"exportId"`
		SHA256            string         `json:"sha256"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, "openapi_companies_RM_6201.xlsx", out.FileName)
	assert.Len(t, out.ExportID, 36)
	assert.Len(t, out.SHA256, 64)
	assert.Equal(t, "Openapi /IT-search", out.Metadata["source"])

	data, err := base64.StdEncoding.DecodeString(out.FileContentBase64)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(formatter.SheetCompanies)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestServerFlow_MissingToken(t *testing.T) {
	srv := server.New(config.Default(), nil, nil, prometheus.NewRegistry())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", bytes.NewBufferString(`{"atecoCode":"6201","province":"RM"}`))
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"token is required"}`, rec.Body.String())
}
