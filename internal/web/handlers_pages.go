package web

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/logging"
	"github.com/JonMunkholm/employees/internal/web/notify"
	"github.com/JonMunkholm/employees/internal/web/templates"
)

// renderPage writes body inside the layout, with any pending flash toast
// ahead of extra.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component, extra ...notify.Notification) {
	var toasts []notify.Notification
	if n, ok := notify.PopFlash(w, r); ok {
		toasts = append(toasts, n)
	}
	toasts = append(toasts, extra...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(title, toasts, body).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "title", title, "error", err)
	}
}

// redirectWith stores n as a flash and redirects with 303 See Other.
func redirectWith(w http.ResponseWriter, r *http.Request, to string, n notify.Notification) {
	notify.SetFlash(w, n)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// handleHome renders the postal-code lookup page, resolving ?cep= when set.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := templates.HomeData{CEP: r.URL.Query().Get("cep")}
	if data.CEP == "" {
		s.renderPage(w, r, http.StatusOK, "Consulta de CEP", templates.Home(data))
		return
	}

	addr, err := s.lookup.Lookup(r.Context(), data.CEP)
	if err != nil {
		data.Error = alertFor(err)
		s.renderPage(w, r, statusFor(err), "Consulta de CEP", templates.Home(data),
			notify.New(notify.Error, data.Error.Message))
		return
	}
	data.Address = &addr
	s.renderPage(w, r, http.StatusOK, "Consulta de CEP", templates.Home(data),
		notify.New(notify.Success, "Endereço encontrado."))
}

func createForm(values map[string]string) templates.FormData {
	return templates.FormData{
		Title:  "Novo funcionário",
		Action: "/funcionarios",
		Submit: "Cadastrar",
		Values: values,
	}
}

func editForm(id int64, values map[string]string) templates.FormData {
	return templates.FormData{
		Title:  "Editar funcionário #" + strconv.FormatInt(id, 10),
		Action: "/funcionarios/" + strconv.FormatInt(id, 10),
		Submit: "Salvar",
		Values: values,
	}
}

// renderEmployees renders the list page around form.
func (s *Server) renderEmployees(w http.ResponseWriter, r *http.Request, status int, form templates.FormData, extra ...notify.Notification) {
	data := templates.EmployeesData{Form: form}
	res := s.service.List(r.Context())
	if res.Success {
		data.Rows = res.Data
	} else {
		data.Error = alertFor(res.Err())
	}
	s.renderPage(w, r, status, "Funcionários", templates.Employees(data), extra...)
}

// handleEmployees renders the employee table and the create form, which
// may be prefilled from the query string.
func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	s.renderEmployees(w, r, http.StatusOK, createForm(formValues(r.URL.Query())))
}

// lookupInto resolves the form's postal code into its address fields.
func (s *Server) lookupInto(r *http.Request, values map[string]string) (notify.Notification, error) {
	addr, err := s.lookup.Lookup(r.Context(), values["cep"])
	if err != nil {
		return notify.New(notify.Error, core.MapError(err).Message), err
	}
	fillAddress(values, addr)
	return notify.New(notify.Success, "Endereço preenchido a partir do CEP "+cep.Format(addr.CEP)+"."), nil
}

// handleCreateEmployee creates an employee, or fills the address fields
// when the lookup button was used.
func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	values, action, err := readForm(w, r)
	if err != nil {
		s.respondErrorPage(w, r, err)
		return
	}
	form := createForm(values)

	if action == actionLookup {
		n, err := s.lookupInto(r, values)
		if err != nil {
			form.Error = alertFor(err)
		}
		s.renderEmployees(w, r, http.StatusOK, form, n)
		return
	}

	e, err := core.EmployeeFromValues(values)
	if err != nil {
		form.Error = alertFor(err)
		s.renderEmployees(w, r, statusFor(err), form)
		return
	}

	res := s.service.Create(r.Context(), e)
	if !res.Success {
		err := res.Err()
		form.Error = alertFor(err)
		s.renderEmployees(w, r, statusFor(err), form, notify.New(notify.Error, form.Error.Message))
		return
	}
	redirectWith(w, r, "/funcionarios", notify.New(notify.Success, "Funcionário cadastrado."))
}

// handleEditEmployee renders the edit form for one employee.
func (s *Server) handleEditEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondErrorPage(w, r, err)
		return
	}

	res := s.service.Get(r.Context(), id)
	if !res.Success {
		s.respondErrorPage(w, r, res.Err())
		return
	}
	s.renderPage(w, r, http.StatusOK, "Editar funcionário", templates.EditPage(editForm(id, core.RowValues(res.Data))))
}

// handleUpdateEmployee saves the edit form, or fills the address fields
// when the lookup button was used.
func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondErrorPage(w, r, err)
		return
	}
	values, action, err := readForm(w, r)
	if err != nil {
		s.respondErrorPage(w, r, err)
		return
	}
	form := editForm(id, values)

	if action == actionLookup {
		n, err := s.lookupInto(r, values)
		if err != nil {
			form.Error = alertFor(err)
		}
		s.renderPage(w, r, http.StatusOK, "Editar funcionário", templates.EditPage(form), n)
		return
	}

	e, err := core.EmployeeFromValues(values)
	if err != nil {
		form.Error = alertFor(err)
		s.renderPage(w, r, statusFor(err), "Editar funcionário", templates.EditPage(form))
		return
	}

	res := s.service.Update(r.Context(), id, e)
	if !res.Success {
		err := res.Err()
		form.Error = alertFor(err)
		s.renderPage(w, r, statusFor(err), "Editar funcionário", templates.EditPage(form),
			notify.New(notify.Error, form.Error.Message))
		return
	}
	redirectWith(w, r, "/funcionarios", notify.New(notify.Success, "Funcionário atualizado."))
}

// handleDeleteEmployee deletes an employee and returns to the list.
func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		redirectWith(w, r, "/funcionarios", notify.New(notify.Error, core.MapError(err).Message))
		return
	}

	res := s.service.Delete(r.Context(), id)
	if !res.Success {
		redirectWith(w, r, "/funcionarios", notify.New(notify.Error, core.MapError(res.Err()).Message))
		return
	}
	redirectWith(w, r, "/funcionarios", notify.New(notify.Success, "Funcionário excluído."))
}
