package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/core"
)

// writeResult writes a data-access envelope. Failures go through the error
// mapping; successes are written as-is with status.
func writeResult[T any](w http.ResponseWriter, r *http.Request, status int, res core.Result[T]) {
	if !res.Success {
		respondErrorJSON(w, r, res.Err())
		return
	}
	writeJSON(w, status, res)
}

// employeeBody is the JSON shape of an employee in a request. The hire date
// is read as text so that "" means absent and the form's date layouts are
// accepted, as everywhere else input arrives.
type employeeBody struct {
	core.Employee
	HireDate *string `json:"dataAdmissao"`
}

// decodeEmployee reads an Employee from a JSON body.
func decodeEmployee(w http.ResponseWriter, r *http.Request) (core.Employee, error) {
	var body employeeBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&body); err != nil {
		return core.Employee{}, apperr.Newf(apperr.Validation, "invalid request body: %v", err)
	}

	e := body.Employee
	if body.HireDate != nil {
		hired, err := core.ParseHireDate(*body.HireDate)
		if err != nil {
			return core.Employee{}, err
		}
		e.HireDate = hired
	}
	return e, nil
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, s.service.List(r.Context()))
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeResult(w, r, http.StatusOK, s.service.Get(r.Context(), id))
}

func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	e, err := decodeEmployee(w, r)
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeResult(w, r, http.StatusCreated, s.service.Create(r.Context(), e))
}

func (s *Server) handleAPIUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	e, err := decodeEmployee(w, r)
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeResult(w, r, http.StatusOK, s.service.Update(r.Context(), id, e))
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeResult(w, r, http.StatusOK, s.service.Delete(r.Context(), id))
}

// handleAPILookup resolves a postal code.
func (s *Server) handleAPILookup(w http.ResponseWriter, r *http.Request) {
	addr, err := s.lookup.Lookup(r.Context(), chi.URLParam(r, "cep"))
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, core.Ok(addr))
}
