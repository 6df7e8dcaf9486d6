package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AlekseyZapadovnikov/org-chart/conf"
	"github.com/AlekseyZapadovnikov/org-chart/internal/domain"
	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
	"github.com/AlekseyZapadovnikov/org-chart/internal/repository"
	"github.com/AlekseyZapadovnikov/org-chart/internal/service"
	"github.com/AlekseyZapadovnikov/org-chart/internal/web"
)

func TestE2E_OrgChart(t *testing.T) {
	suite := newE2ESuite(t, repository.NewMemoryStorage(repository.DemoEmployees()))
	suite.mustHealth()

	employees := suite.mustListEmployees("/api/employees")
	require.Len(t, employees, 17)

	view := suite.mustView(http.MethodGet, "/chart", nil)
	require.Equal(t, 17, view.Size)
	require.Len(t, view.Roots, 1)
	require.Equal(t, "Mark Hill", view.Roots[0].Name)

	require.Equal(t, []string{"Engineering", "Finance", "HR", "Leadership", "Marketing"}, suite.mustTeams())

	view = suite.mustView(http.MethodPost, "/chart/team", models.PostChartTeamJSONBody{Team: "Finance"})
	require.Equal(t, "Finance", view.Team)
	require.Equal(t, 5, view.Size)

	result := suite.mustMove(6, 9)
	require.Equal(t, domain.ReassignConfirmed, result.State)
	require.Equal(t, int64(5), *result.PreviousManagerID)

	notifications := suite.mustNotifications()
	require.Len(t, notifications, 1)
	require.Equal(t, result.NotificationKey, notifications[0].Key)
	require.Equal(t, models.NotificationSuccess, notifications[0].Kind)
	require.Equal(t, "Mike Torres now reports to Lisa Anderson", notifications[0].Message)

	// Mike из разработки: проекция финансов включает только руководителей команды, но не их подчинённых.
	view = suite.mustView(http.MethodGet, "/chart", nil)
	require.Equal(t, 5, view.Size)
	require.Equal(t, int64(9), suite.managerOf(6))

	// Robert переходит к Sarah, и её цепочка 5 -> 2 появляется в проекции финансов.
	result = suite.mustMove(10, 5)
	require.Equal(t, domain.ReassignConfirmed, result.State)
	view = suite.mustView(http.MethodGet, "/chart", nil)
	require.Equal(t, 7, view.Size)
	require.ElementsMatch(t, []int64{1, 2, 3, 5, 9, 10, 11}, forestIDs(view.Roots))

	// John теперь выше Mike по цепочке, поэтому перенос John под Mike образует цикл.
	resp := suite.doJSON(http.MethodPost, "/chart/move", models.PostChartMoveJSONBody{EmployeeID: 3, NewManagerID: 6})
	requireErrorCode(t, resp, http.StatusConflict, "CYCLE_DETECTED")
	notifications = suite.mustNotifications()
	require.Len(t, notifications, 3)
	require.Equal(t, "Cannot create circular reporting structure!", notifications[0].Message)

	// Заглушка не сохраняет изменения, поэтому перезагрузка возвращает исходные данные.
	view = suite.mustView(http.MethodPost, "/chart/reload", nil)
	require.Equal(t, 5, view.Size)
	require.Equal(t, int64(5), suite.managerOf(6))
	require.Equal(t, int64(9), suite.managerOf(10))

	suggestions := suite.mustListEmployees("/chart/suggest?q=" + url.QueryEscape("sarah") + "&limit=3")
	require.NotEmpty(t, suggestions)
	require.Equal(t, int64(5), suggestions[0].ID)
}

func TestE2E_PersistFailureRollsBack(t *testing.T) {
	storage := repository.NewMemoryStorage(repository.DemoEmployees(),
		repository.WithPersist(true),
		repository.WithUpdateHook(func(int64, int64) error {
			return errors.New("network error")
		}),
	)
	suite := newE2ESuite(t, storage)

	resp := suite.doJSON(http.MethodPost, "/chart/move", models.PostChartMoveJSONBody{EmployeeID: 6, NewManagerID: 9})
	requireErrorCode(t, resp, http.StatusBadGateway, "PERSIST_FAILED")
	require.Equal(t, int64(5), suite.managerOf(6))

	notifications := suite.mustNotifications()
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationFailure, notifications[0].Kind)

	resp, err := suite.client.Get(suite.url("/chart/last-move"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Result domain.ReassignResult `json:"result"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, domain.ReassignRolledBack, body.Result.State)
}

type e2eSuite struct {
	t       *testing.T
	server  *web.Server
	baseURL string
	client  *http.Client
	errCh   chan error
}

func newE2ESuite(t *testing.T, storage *repository.MemoryStorage) *e2eSuite {
	t.Helper()

	feed := service.NewNotificationFeed(10)
	chart := service.NewChartManager(storage, feed)
	require.NoError(t, chart.Load(context.Background()))

	cfg := conf.HttpServConf{
		Host: "127.0.0.1",
		Port: freePort(t),
	}

	server := web.New(cfg, storage, chart, feed)
	suite := &e2eSuite{
		t:       t,
		server:  server,
		baseURL: fmt.Sprintf("http://%s", server.Address),
		client: &http.Client{
			Timeout: 3 * time.Second,
		},
		errCh: make(chan error, 1),
	}
	suite.startServer()
	suite.waitForReady()

	t.Cleanup(func() {
		suite.shutdown()
	})

	return suite
}

func (s *e2eSuite) startServer() {
	go func() {
		err := s.server.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
			return
		}
		s.errCh <- nil
	}()
}

func (s *e2eSuite) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(s.t, s.server.Shutdown(ctx))
	err := <-s.errCh
	require.NoError(s.t, err)
}

func (s *e2eSuite) waitForReady() {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := s.client.Get(s.url("/health"))
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		time.Sleep(20 * time.Millisecond)
	}
	s.t.Fatalf("server at %s did not become ready", s.baseURL)
}

func (s *e2eSuite) url(path string) string {
	return fmt.Sprintf("%s%s", s.baseURL, path)
}

func (s *e2eSuite) mustHealth() {
	resp, err := s.client.Get(s.url("/health"))
	require.NoError(s.t, err)
	defer resp.Body.Close()
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
}

func (s *e2eSuite) mustListEmployees(path string) []models.Employee {
	resp, err := s.client.Get(s.url(path))
	require.NoError(s.t, err)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var body models.EmployeesResponse
	decodeJSON(s.t, resp, &body)
	return body.Employees
}

func (s *e2eSuite) managerOf(id int64) int64 {
	for _, e := range s.mustListEmployees("/chart/employees") {
		if e.ID == id {
			require.NotNil(s.t, e.ManagerID)
			return *e.ManagerID
		}
	}
	s.t.Fatalf("employee %d not listed", id)
	return 0
}

func (s *e2eSuite) mustView(method, path string, payload interface{}) models.ChartView {
	resp := s.doJSON(method, path, payload)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var view models.ChartView
	decodeJSON(s.t, resp, &view)
	return view
}

func (s *e2eSuite) mustTeams() []string {
	resp, err := s.client.Get(s.url("/chart/teams"))
	require.NoError(s.t, err)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var body struct {
		Teams []string `json:"teams"`
	}
	decodeJSON(s.t, resp, &body)
	return body.Teams
}

func (s *e2eSuite) mustMove(employeeID, newManagerID int64) domain.ReassignResult {
	resp := s.doJSON(http.MethodPost, "/chart/move", models.PostChartMoveJSONBody{
		EmployeeID:   employeeID,
		NewManagerID: newManagerID,
	})
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var body struct {
		Result *domain.ReassignResult `json:"result"`
	}
	decodeJSON(s.t, resp, &body)
	require.NotNil(s.t, body.Result)
	return *body.Result
}

func (s *e2eSuite) mustNotifications() []models.Notification {
	resp, err := s.client.Get(s.url("/chart/notifications"))
	require.NoError(s.t, err)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var body struct {
		Notifications []models.Notification `json:"notifications"`
	}
	decodeJSON(s.t, resp, &body)
	return body.Notifications
}

func (s *e2eSuite) doJSON(method, path string, payload interface{}) *http.Response {
	s.t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.url(path), body)
	require.NoError(s.t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	return resp
}

func requireErrorCode(tb testing.TB, resp *http.Response, status int, code string) {
	tb.Helper()
	require.Equal(tb, status, resp.StatusCode)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeJSON(tb, resp, &body)
	require.Equal(tb, code, body.Error.Code)
}

func decodeJSON(tb testing.TB, resp *http.Response, v interface{}) {
	tb.Helper()
	defer resp.Body.Close()
	require.NoError(tb, json.NewDecoder(resp.Body).Decode(v))
}

func forestIDs(nodes []*models.TreeNode) []int64 {
	var out []int64
	for _, n := range nodes {
		out = append(out, n.ID)
		out = append(out, forestIDs(n.Children)...)
	}
	return out
}

func freePort(tb testing.TB) string {
	tb.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(tb, err)
	defer ln.Close()
	addr := ln.Addr().(*net.TCPAddr)
	return strconv.Itoa(addr.Port)
}
