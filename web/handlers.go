package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fsecamp/reimburse/export"
	"github.com/fsecamp/reimburse/loader"
	"github.com/fsecamp/reimburse/logger"
	"github.com/fsecamp/reimburse/render"
	"github.com/fsecamp/reimburse/store"
	"github.com/fsecamp/reimburse/validation"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse carries errors that prevented validation.
type ErrorResponse struct {
	Errors []render.ErrorJSON `json:"errors"`
}

func writeErrors(w http.ResponseWriter, status int, errs ...error) {
	writeJSONResponse(w, status, ErrorResponse{Errors: render.NewJSONFormatter().FormatAllToSlice(errs)})
}

// validateRequest loads and validates the request body. The query selects
// the layout (format=paste|sifer|xlsx, default paste) and supplies the
// reference metadata pasted data does not carry (rif_pa, cup, distretto,
// capofila). On failure the error response is written and ok is false.
func (s *Server) validateRequest(w http.ResponseWriter, r *http.Request) (report *validation.Report, format loader.Format, ok bool) {
	query := r.URL.Query()

	format = loader.FormatPaste
	if f := query.Get("format"); f != "" {
		parsed, err := loader.ParseFormat(f)
		if err != nil {
			writeErrors(w, http.StatusBadRequest, err)
			return nil, format, false
		}
		if parsed != loader.FormatAuto {
			format = parsed
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeErrors(w, http.StatusRequestEntityTooLarge, err)
		return nil, format, false
	}

	ldr := loader.New(
		loader.WithFormat(format),
		loader.WithMetadata(loader.Metadata{
			Reference:        query.Get("rif_pa"),
			CUP:              query.Get("cup"),
			District:         query.Get("distretto"),
			LeadMunicipality: query.Get("capofila"),
		}),
	)
	ctx := r.Context()
	result, err := ldr.LoadBytes(ctx, "<request>", body)
	if err != nil {
		writeErrors(w, http.StatusUnprocessableEntity, err)
		return nil, format, false
	}

	report, err = validation.Validate(ctx, result.Batch, result.Bindings)
	if err != nil {
		writeErrors(w, http.StatusInternalServerError, err)
		return nil, format, false
	}
	return report, format, true
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	report, format, ok := s.validateRequest(w, r)
	if !ok {
		return
	}

	clean, blocking := report.Summary()
	logger.Activity(r.Context(), s.User, logger.ActionWebValidate, map[string]any{
		"reference": report.Reference,
		"format":    format.String(),
		"records":   len(report.Records),
		"clean":     clean,
		"blocking":  blocking,
	})

	writeJSONResponse(w, http.StatusOK, render.NewReportJSON(report))
}

// SaveResponse acknowledges a saved submission.
type SaveResponse struct {
	TransmissionID string `json:"transmission_id"`
	Reference      string `json:"reference"`
	Records        int    `json:"records"`
}

// handleSave validates the request body like /api/validate and stores the
// submission when it is clean and its reference is new.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	report, _, ok := s.validateRequest(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if report.HasBlockingErrors {
		writeJSONResponse(w, http.StatusUnprocessableEntity, render.NewReportJSON(report))
		return
	}
	if report.Reference == "" {
		writeErrors(w, http.StatusBadRequest, errors.New("rif_pa is required to save a submission"))
		return
	}

	sub, err := export.New(report)
	if err != nil {
		writeErrors(w, http.StatusUnprocessableEntity, err)
		return
	}
	err = store.SaveValidated(ctx, s.Store, report, sub)
	var dup *store.DuplicateReferenceError
	switch {
	case errors.As(err, &dup):
		logger.Activity(ctx, s.User, logger.ActionDuplicateReference, map[string]any{"reference": dup.GetReference()})
		writeErrors(w, http.StatusConflict, err)
		return
	case err != nil:
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("reference", sub.Reference).Msg("save failed")
		writeErrors(w, http.StatusInternalServerError, err)
		return
	}

	logger.Activity(ctx, s.User, logger.ActionDataSaved, map[string]any{
		"reference":       sub.Reference,
		"transmission_id": sub.TransmissionID.String(),
		"records":         len(sub.Records),
	})
	writeJSONResponse(w, http.StatusCreated, SaveResponse{
		TransmissionID: sub.TransmissionID.String(),
		Reference:      sub.Reference,
		Records:        len(sub.Records),
	})
}

// ReportResponse is the report of the served file.
type ReportResponse struct {
	Filepath string `json:"filepath"`
	render.ReportJSON
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	filename, report, ok := s.servedReport(w)
	if !ok {
		return
	}
	writeJSONResponse(w, http.StatusOK, ReportResponse{Filepath: filename, ReportJSON: render.NewReportJSON(report)})
}

// SummaryResponse is the control summary of the served file. Display values
// use Italian number formatting.
type SummaryResponse struct {
	Reference string              `json:"reference"`
	Totals    export.Summary      `json:"totals"`
	Lines     []SummaryLineResult `json:"lines"`
}

type SummaryLineResult struct {
	Label   string `json:"label"`
	Display string `json:"display"`
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	_, report, ok := s.servedReport(w)
	if !ok {
		return
	}
	sub, err := export.New(report)
	if errors.Is(err, export.ErrBlockingErrors) {
		writeErrors(w, http.StatusConflict, err)
		return
	}

	totals := export.Summarize(sub.Records)
	resp := SummaryResponse{Reference: sub.Reference, Totals: totals}
	for _, line := range totals.Lines() {
		resp.Lines = append(resp.Lines, SummaryLineResult{Label: line.Label, Display: export.FormatItalian(line.Value)})
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// servedReport writes the failure response and returns false when no report
// of a served file is available.
func (s *Server) servedReport(w http.ResponseWriter) (string, *validation.Report, bool) {
	filename, report, loadErr := s.current()
	switch {
	case filename == "":
		writeErrors(w, http.StatusNotFound, errors.New("no file is served"))
		return "", nil, false
	case loadErr != nil:
		writeErrors(w, http.StatusUnprocessableEntity, loadErr)
		return "", nil, false
	}
	return filename, report, true
}

// VersionResponse describes the running server.
type VersionResponse struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commit_sha,omitempty"`
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, VersionResponse{Version: s.Version, CommitSHA: s.CommitSHA})
}
