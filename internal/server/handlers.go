package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/nscp"
	"github.com/alexiusacademia/gotruss/internal/project"
	"github.com/alexiusacademia/gotruss/internal/record"
	"github.com/alexiusacademia/gotruss/internal/report"
	"github.com/alexiusacademia/gotruss/internal/truss"
	"github.com/alexiusacademia/gotruss/internal/version"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidInput, apperr.CodeInvalidFormat, apperr.CodeInvalidProject:
		return http.StatusBadRequest
	case apperr.CodeFileNotFound:
		return http.StatusNotFound
	case apperr.CodeUnsupported:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: errorDetail{
			Code:    "TOO_LARGE",
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		}})
		return
	}

	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.CodeInternal
	}
	status := statusFor(code)
	msg := apperr.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", requestIDFrom(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: string(code), Message: msg}})
}

// requestFormat picks the body encoding from ?format= or the Content-Type.
func requestFormat(r *http.Request) (record.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return record.ParseFormat(f)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return record.JSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeUnsupported, err, "content type %q", ct)
	}
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json") || mt == "text/plain":
		return record.JSON, nil
	case strings.Contains(mt, "yaml"):
		return record.YAML, nil
	case strings.Contains(mt, "toml"):
		return record.TOML, nil
	case mt == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return record.XLSX, nil
	}
	return "", apperr.New(apperr.CodeUnsupported, "unsupported content type %q", mt)
}

// readBody reads the request body, surfacing the size limit error.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "read body")
	}
	return data, nil
}

// analysis is a resolved and analyzed structure with the context a report
// needs.
type analysis struct {
	title       string
	combination string
	warnings    []string
	model       *truss.Model
	result      *truss.Result
}

func (s *Server) analyzeRecord(r *http.Request) (*analysis, error) {
	format, err := requestFormat(r)
	if err != nil {
		return nil, err
	}
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	in, err := record.DecodeBytes(data, format)
	if err != nil {
		return nil, err
	}
	return s.run(in, r.URL.Query().Get("title"), "", nil)
}

func (s *Server) analyzeProject(r *http.Request) (*analysis, error) {
	format, err := requestFormat(r)
	if err != nil {
		return nil, err
	}
	if format == record.XLSX {
		return nil, apperr.New(apperr.CodeUnsupported, "projects are json, yaml or toml")
	}
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	p, err := project.DecodeBytes(data, format)
	if err != nil {
		return nil, err
	}
	p.ApplyDefaults(s.cfg.Defaults.Material, s.cfg.Defaults.AreaCm2)
	in, warnings, err := p.Build()
	if err != nil {
		return nil, err
	}
	combo, _ := nscp.LookupCombination(p.Combination)
	return s.run(in, p.Name, combo.Description, warnings)
}

func (s *Server) run(in *record.Input, title, combination string, warnings []string) (*analysis, error) {
	if limit := s.cfg.Server.MaxNodes; len(in.Nodes) > limit {
		return nil, apperr.New(apperr.CodeInvalidInput, "%d nodes exceeds the limit of %d", len(in.Nodes), limit)
	}
	opts := s.cfg.Analysis.Options()
	m := in.Model(opts)
	res, err := truss.AnalyzeModel(m, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "analyze")
	}
	for _, sk := range m.Skipped() {
		warnings = append(warnings, fmt.Sprintf("element %d skipped: %s", sk.ElementID, sk.Reason))
	}
	return &analysis{title: title, combination: combination, warnings: warnings, model: m, result: res}, nil
}

// fromQuery analyzes either an input record or, with ?input=project, a
// project.
func (s *Server) fromQuery(r *http.Request) (*analysis, error) {
	switch r.URL.Query().Get("input") {
	case "", "record":
		return s.analyzeRecord(r)
	case "project":
		return s.analyzeProject(r)
	}
	return nil, apperr.New(apperr.CodeInvalidInput, "input must be record or project")
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeRecord(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewOutput(a.result))
}

type projectResponse struct {
	Name        string        `json:"name,omitempty"`
	Combination string        `json:"combination,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	Result      record.Output `json:"result"`
	Summary     truss.Summary `json:"summary"`
}

func (s *Server) handleProjectAnalyze(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeProject(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{
		Name:        a.title,
		Combination: a.combination,
		Warnings:    a.warnings,
		Result:      record.NewOutput(a.result),
		Summary:     truss.Summarize(a.model, a.result),
	})
}

func (a *analysis) report() *report.Report {
	rep := report.New(a.title, a.model, a.result)
	rep.Combination = a.combination
	rep.Warnings = a.warnings
	return rep
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	a, err := s.fromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := a.report().WritePDF(&buf, -1); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.CodeInternal, err, "render pdf"))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="truss-report.pdf"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	a, err := s.fromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := a.report().WriteXLSX(&buf); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.CodeInternal, err, "render workbook"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="truss-report.xlsx"`)
	w.Write(buf.Bytes())
}

type materialJSON struct {
	Name     string  `json:"name"`
	EGPa     float64 `json:"eGPa"`
	YieldMPa float64 `json:"yieldMPa"`
	Describe string  `json:"description"`
}

type combinationJSON struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Factors     map[string]float64 `json:"factors"`
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	materials := make([]materialJSON, 0, len(nscp.Materials))
	for _, m := range nscp.Materials {
		materials = append(materials, materialJSON{Name: m.Name, EGPa: m.E, YieldMPa: m.Yield, Describe: m.Describe})
	}
	combos := make([]combinationJSON, 0, len(nscp.LoadCombinations))
	for _, c := range nscp.LoadCombinations {
		factors := make(map[string]float64)
		for _, k := range nscp.LoadKinds {
			if f := c.Factor(k); f != 0 {
				factors[string(k)] = f
			}
		}
		combos = append(combos, combinationJSON{ID: c.ID, Description: c.Description, Factors: factors})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"materials":       materials,
		"combinations":    combos,
		"defaultMaterial": s.cfg.Defaults.Material,
		"defaultAreaCm2":  s.cfg.Defaults.AreaCm2,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}
