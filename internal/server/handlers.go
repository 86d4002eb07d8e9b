package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string   `json:"error"`
	Missing   []string `json:"missing,omitempty"`
	Line      int      `json:"line,omitempty"`
	Column    string   `json:"column,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// SchemaInfo is served at /v1/schema.
type SchemaInfo struct {
	Required    []string `json:"required"`
	Optional    []string `json:"optional"`
	Assumptions struct {
		Columns []string `json:"columns,omitempty"`
		Match   string   `json:"match"`
	} `json:"assumptions"`
	DateLayouts []string `json:"date_layouts"`
}

// ReportSummary is one entry of GET /v1/reports.
type ReportSummary struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	GeneratedAt  time.Time `json:"generated_at"`
	ZeroCashDate time.Time `json:"zero_cash_date"`
	Months       float64   `json:"cash_burn_rate_months"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	sc := s.cfg.App.Schema

	var info SchemaInfo
	info.Required = sc.Required()
	info.Optional = sc.Optional()
	info.Assumptions.Columns = sc.AssumptionColumns
	info.Assumptions.Match = sc.AssumptionMatch
	info.DateLayouts = append(append([]string(nil), s.cfg.App.General.DateLayouts...), ledger.DefaultDateLayouts...)

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	up, err := readUpload(w, r, s.cfg.MaxUploadBytes)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.log.Warn().Err(err).Str("request_id", reqID).Msg("upload rejected")
		s.remember(nil, err)
		writeJSON(w, status, errorBody{Error: err.Error(), RequestID: reqID})
		return
	}

	l, err := ledger.Read(up.Name, bytes.NewReader(up.Data), ledger.OptionsFor(s.cfg.App))
	if err != nil {
		s.log.Info().Err(err).Str("request_id", reqID).Str("file", up.Name).Msg("ledger rejected")
		s.remember(nil, err)
		writeLedgerError(w, err, reqID)
		return
	}

	rep, err := pipeline.Analyze(l, s.cfg.App)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", reqID).Msg("analysis failed")
		s.remember(nil, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), RequestID: reqID})
		return
	}
	rep.ID = uuid.NewString()
	s.remember(rep, nil)

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReports(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	out := make([]ReportSummary, 0, len(s.reports))
	for i := len(s.reports) - 1; i >= 0; i-- {
		rep := s.reports[i]
		out = append(out, ReportSummary{
			ID:           rep.ID,
			Source:       rep.Source,
			GeneratedAt:  rep.GeneratedAt,
			ZeroCashDate: rep.Metrics.ZeroCashDate,
			Months:       rep.Metrics.CashBurnRateMonths,
		})
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid report id"})
		return
	}
	rep, ok := s.findReport(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "report not found"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// writeLedgerError maps ledger errors to status codes: a structurally bad
// file is 400, a well-formed file that cannot be analysed is 422.
func writeLedgerError(w http.ResponseWriter, err error, reqID string) {
	body := errorBody{Error: err.Error(), RequestID: reqID}

	var missing *ledger.MissingColumnsError
	var invalid *ledger.InvalidNumberError
	switch {
	case errors.As(err, &missing):
		body.Missing = missing.Missing
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.As(err, &invalid):
		body.Line = invalid.Line
		body.Column = invalid.Column
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, ledger.ErrEmptyLedger):
		writeJSON(w, http.StatusUnprocessableEntity, body)
	default:
		writeJSON(w, http.StatusBadRequest, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
