package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dkoval/companyportal/internal/server/models"
	"github.com/dkoval/companyportal/internal/server/services"
)

type employeeJSON struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Role      string `json:"role"`
}

func toEmployeeJSON(e *models.Employee) employeeJSON {
	return employeeJSON{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName, Role: e.Role}
}

func employeeID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func decodeEmployee(r *http.Request) (services.EmployeeRequest, error) {
	var in struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Role      string `json:"role"`
	}
	err := decodeJSON(r, &in)
	return services.EmployeeRequest{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
	}, err
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := s.employees.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]employeeJSON, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeJSON(e))
	}

	flash := ""
	if mgr := SessionFromContext(r.Context()); mgr != nil {
		flash = mgr.PopFlash()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"employees": out,
		"total":     len(out),
		"roles":     services.Roles,
		"flash":     flash,
	})
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := s.employees.Get(r.Context(), employeeID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"employee": toEmployeeJSON(e)})
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEmployee(r)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid json")
		return
	}

	e, err := s.employees.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if mgr := SessionFromContext(r.Context()); mgr != nil {
		mgr.SetFlash("New employee saved successfully.")
	}

	writeJSON(w, http.StatusCreated, map[string]any{"employee": toEmployeeJSON(e)})
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEmployee(r)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid json")
		return
	}

	e, err := s.employees.Update(r.Context(), employeeID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if mgr := SessionFromContext(r.Context()); mgr != nil {
		mgr.SetFlash("Employee updated successfully.")
	}

	writeJSON(w, http.StatusOK, map[string]any{"employee": toEmployeeJSON(e)})
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := s.employees.Delete(r.Context(), employeeID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	if mgr := SessionFromContext(r.Context()); mgr != nil {
		mgr.SetFlash("Employee removed successfully.")
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRoleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.employees.RoleReport(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type roleCountJSON struct {
		Role  string `json:"role"`
		Total int64  `json:"total"`
	}
	out := make([]roleCountJSON, 0, len(report))
	var total int64
	for _, rc := range report {
		out = append(out, roleCountJSON{Role: rc.Role, Total: rc.Total})
		total += rc.Total
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"breakdown": out,
		"total":     total,
	})
}
