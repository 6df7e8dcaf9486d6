package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

// handleListEmployees отдаёт всю коллекцию сотрудников.
func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.store.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if employees == nil {
		employees = []models.Employee{}
	}

	writeJSON(w, http.StatusOK, models.EmployeesResponse{Employees: employees})
}

// handlePatchEmployee меняет руководителя сотрудника и возвращает обновлённую запись.
func (s *Server) handlePatchEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, INVALIDPARAM, "id must be a positive integer")
		return
	}

	var p models.PatchEmployeeJSONBody
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, INVALIDPAYLOAD, "managerId must be a positive integer")
		return
	}

	employee, err := s.store.UpdateEmployeeManager(r.Context(), id, *p.ManagerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.EmployeeResponse{Employee: employee})
}
