package web

import (
	"net/http"
	"strconv"

	"github.com/AlekseyZapadovnikov/org-chart/internal/domain"
	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

const (
	defaultSuggestLimit = 5
	maxSuggestLimit     = 50
)

type moveResp struct {
	Result *domain.ReassignResult `json:"result"`
}

type teamsResp struct {
	Teams []string `json:"teams"`
}

type notificationsResp struct {
	Notifications []models.Notification `json:"notifications"`
}

// handleChartView отдаёт лес текущей проекции.
func (s *Server) handleChartView(w http.ResponseWriter, r *http.Request) {
	s.writeView(w)
}

// handleSelectTeam меняет фильтр по команде.
func (s *Server) handleSelectTeam(w http.ResponseWriter, r *http.Request) {
	var p models.PostChartTeamJSONBody
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, INVALIDPAYLOAD, "invalid json payload")
		return
	}

	if err := s.chart.SelectTeam(p.Team); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeView(w)
}

// handleMove переносит карточку сотрудника на нового руководителя.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var p models.PostChartMoveJSONBody
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, INVALIDPAYLOAD, "employeeId and newManagerId must be positive integers")
		return
	}

	res, err := s.chart.Reassign(r.Context(), p.EmployeeID, p.NewManagerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, moveResp{Result: res})
}

// handleReload заново загружает коллекцию из источника.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.chart.Load(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeView(w)
}

// handleLastMove отдаёт результат последней попытки переназначения.
func (s *Server) handleLastMove(w http.ResponseWriter, r *http.Request) {
	res, ok := s.chart.LastAttempt()
	if !ok {
		writeError(w, http.StatusNotFound, NOTFOUND, "no reassignment attempted yet")
		return
	}
	writeJSON(w, http.StatusOK, moveResp{Result: &res})
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, teamsResp{Teams: s.chart.Teams()})
}

// handleSidebarList отдаёт список сотрудников с фильтром по команде и поиском.
func (s *Server) handleSidebarList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, models.EmployeesResponse{
		Employees: s.chart.List(q.Get("team"), q.Get("q")),
	})
}

// handleSuggest подбирает сотрудников для автодополнения.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultSuggestLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSuggestLimit {
			writeError(w, http.StatusBadRequest, INVALIDPARAM, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	employees := s.chart.Suggest(q.Get("q"), limit)
	if employees == nil {
		employees = []models.Employee{}
	}
	writeJSON(w, http.StatusOK, models.EmployeesResponse{Employees: employees})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, notificationsResp{Notifications: s.notifications.List()})
}

func (s *Server) writeView(w http.ResponseWriter) {
	view, err := s.chart.View()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
