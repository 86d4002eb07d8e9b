package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
)

const ledgerCSV = `Date,Opening Balance,Closing Balance,Cash Runway (Months)
2024-01-01,1000,900,9
2024-02-01,900,750,5
2024-03-01,750,650,6.5
`

func newTestServer(t *testing.T, limit int64) *Server {
	t.Helper()
	return New(Config{
		MaxUploadBytes: limit,
		ReportsBuffer:  2,
		App:            config.DefaultConfig(),
		Log:            zerolog.New(io.Discard),
	})
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postCSV(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze?name=q1.csv", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv; charset=utf-8")
	return do(t, s, req)
}

func multipartRequest(t *testing.T, filename, contentType, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 0)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestSchema(t *testing.T) {
	s := newTestServer(t, 0)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info SchemaInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, []string{"Date", "Opening Balance", "Closing Balance"}, info.Required)
	assert.Contains(t, info.Optional, "Cash Runway (Months)")
	assert.Equal(t, "Assumption", info.Assumptions.Match)
	assert.Contains(t, info.DateLayouts, "2006-01-02")
}

func TestAnalyze_RawCSV(t *testing.T) {
	s := newTestServer(t, 0)
	rec := postCSV(t, s, ledgerCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Len(t, rep.ID, 36)
	assert.Equal(t, "q1.csv", rep.Source)
	assert.Equal(t, "116.67", rep.Metrics.AverageMonthlyBurn.StringFixed(2))
	assert.Equal(t, "900", rep.Metrics.CurrentBalance.String())
	assert.Equal(t, "2024-08-23", rep.Metrics.ZeroCashDate.Format("2006-01-02"))
	assert.True(t, rep.SmoothingSkipped)
	assert.Len(t, rep.Runway, 3)

	// The report can be fetched again by id.
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/v1/reports/"+rep.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyze_Multipart(t *testing.T) {
	s := newTestServer(t, 0)
	rec := do(t, s, multipartRequest(t, "../../ledger.csv", "text/csv", ledgerCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "ledger.csv", rep.Source)
}

func TestAnalyze_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		status int
		check  func(t *testing.T, body errorBody)
	}{
		{
			name: "missing columns",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("Date,Opening Balance\n2024-01-01,5\n"))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body errorBody) {
				assert.Equal(t, []string{"Closing Balance"}, body.Missing)
			},
		},
		{
			name: "invalid balance",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/analyze",
					strings.NewReader("Date,Opening Balance,Closing Balance\n2024-01-01,abc,5\n"))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body errorBody) {
				assert.Equal(t, 2, body.Line)
				assert.Equal(t, "Opening Balance", body.Column)
			},
		},
		{
			name: "no valid dates",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/analyze",
					strings.NewReader("Date,Opening Balance,Closing Balance\nsoon,1,2\n"))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "json content type",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"a":1}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			status: http.StatusBadRequest,
		},
		{
			name: "binary body",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader([]byte{'D', 0, 0, 1, 2}))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			status: http.StatusBadRequest,
		},
		{
			name: "empty body",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("  \n"))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			status: http.StatusBadRequest,
		},
		{
			name: "multipart without file field",
			req: func(t *testing.T) *http.Request {
				var buf bytes.Buffer
				mw := multipart.NewWriter(&buf)
				require.NoError(t, mw.WriteField("other", "x"))
				require.NoError(t, mw.Close())
				req := httptest.NewRequest(http.MethodPost, "/v1/analyze", &buf)
				req.Header.Set("Content-Type", mw.FormDataContentType())
				return req
			},
			status: http.StatusBadRequest,
		},
		{
			name: "multipart spreadsheet",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "q1.xlsx",
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ledgerCSV)
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 0)
			rec := do(t, s, tt.req(t))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			body := decodeError(t, rec)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.RequestID)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestAnalyze_TooLarge(t *testing.T) {
	s := newTestServer(t, 64)
	rec := postCSV(t, s, ledgerCSV)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "size limit")
}

func TestReports_RingBuffer(t *testing.T) {
	s := newTestServer(t, 0)
	var ids []string
	for range 3 {
		rec := postCSV(t, s, ledgerCSV)
		require.Equal(t, http.StatusOK, rec.Code)
		var rep model.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
		ids = append(ids, rep.ID)
	}
	postCSV(t, s, "Date\n2024-01-01\n")

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/v1/reports", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []ReportSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID, "newest first")
	assert.Equal(t, ids[1], list[1].ID)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/v1/reports/"+ids[0], nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "evicted report")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/v1/reports/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	st := s.snapshotStatus()
	assert.EqualValues(t, 3, st.Analyses)
	assert.EqualValues(t, 1, st.Failures)
	assert.Contains(t, st.LastError, "missing required columns")
}

func TestCORSPreflight(t *testing.T) {
	s := New(Config{
		AllowedOrigins: []string{"https://app.example.com"},
		App:            config.DefaultConfig(),
		Log:            zerolog.New(io.Discard),
	})
	req := httptest.NewRequest(http.MethodOptions, "/v1/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := do(t, s, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
