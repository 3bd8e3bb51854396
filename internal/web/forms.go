package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/web/templates"
)

// maxBodySize bounds form and JSON request bodies (1MB).
const maxBodySize = 1 << 20

// Form actions of the employee form's submit buttons.
const (
	actionLookup = "buscar-cep"
	actionSave   = "salvar"
)

// parseIDParam reads the {id} route parameter.
func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.Validation, "invalid employee id: %q", raw)
	}
	return id, nil
}

// formValues collects the employee fields from src, trimmed.
func formValues(src url.Values) map[string]string {
	values := make(map[string]string, len(templates.EmployeeFields))
	for _, f := range templates.EmployeeFields {
		if v, ok := src[f.Name]; ok && len(v) > 0 {
			values[f.Name] = strings.TrimSpace(v[0])
		}
	}
	return values
}

// readForm parses a posted employee form.
func readForm(w http.ResponseWriter, r *http.Request) (map[string]string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		return nil, "", apperr.Newf(apperr.Validation, "invalid request body: %v", err)
	}
	return formValues(r.PostForm), r.PostForm.Get("acao"), nil
}

// fillAddress copies a looked-up address into the form. Number and
// complement are left as typed.
func fillAddress(v map[string]string, a cep.Address) {
	v["cep"] = cep.Format(a.CEP)
	v["endereco"] = a.Street
	v["bairro"] = a.District
	v["cidade"] = a.City
	v["estado"] = a.State
}
