package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/deppfellow/people-api/internal/config"
	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/errs"
	"github.com/deppfellow/people-api/internal/middleware"
	"github.com/deppfellow/people-api/internal/model"
	"github.com/deppfellow/people-api/internal/repository"
	"github.com/deppfellow/people-api/internal/server"
	"github.com/deppfellow/people-api/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- fakes ------------------------------------------------------------------

type fakePeople struct {
	list      []model.Person
	person    *model.Person
	createdID int64
	affected  int64
	err       error

	created *service.CreatePersonInput
	fields  map[string]any
	calls   int
}

func (f *fakePeople) List(context.Context) ([]model.Person, error) {
	f.calls++
	return f.list, f.err
}

func (f *fakePeople) Get(_ context.Context, id int64) (*model.Person, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.person, nil
}

func (f *fakePeople) Create(_ context.Context, in service.CreatePersonInput) (int64, error) {
	f.calls++
	f.created = &in
	return f.createdID, f.err
}

func (f *fakePeople) Update(_ context.Context, _ int64, fields map[string]any) (int64, error) {
	f.calls++
	f.fields = fields
	return f.affected, f.err
}

func (f *fakePeople) Delete(context.Context, int64) error {
	f.calls++
	return f.err
}

type fakeActivities struct {
	list     []model.Activity
	personID int64
	affected int64
	err      error
}

func (f *fakeActivities) List(context.Context) ([]model.Activity, error) {
	return f.list, f.err
}

func (f *fakeActivities) ListByPerson(_ context.Context, personID int64) ([]model.Activity, error) {
	f.personID = personID
	return f.list, f.err
}

func (f *fakeActivities) Update(context.Context, int64, map[string]any) (int64, error) {
	return f.affected, f.err
}

type fakeReference struct {
	genders []model.Gender
	rows    []model.ProjectedPerson
	view    repository.View
	err     error
}

func (f *fakeReference) Genders(context.Context) ([]model.Gender, error) {
	return f.genders, f.err
}

func (f *fakeReference) View(_ context.Context, view repository.View) ([]model.ProjectedPerson, error) {
	f.view = view
	return f.rows, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// --- helpers ----------------------------------------------------------------

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "development"},
			Server:  config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Database: config.DatabaseConfig{
				Host:     "db.internal",
				Port:     5432,
				Name:     "railway",
				User:     "postgres",
				Password: "hunter2",
			},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	mws := middleware.NewMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = mws.Global.GlobalErrorHandler
	e.Use(
		middleware.RequestID(),
		mws.ContextEnhancer.EnhanceContext(),
		mws.Global.Recover(),
	)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func ptr[T any](v T) *T { return &v }

func newPeopleEcho(people *fakePeople) *echo.Echo {
	s := newTestServer()
	e := newTestEcho(s)
	h := NewPeopleHandler(s, people)
	id := middleware.IntParam("id")

	e.GET("/people", Handle(h.Handler, h.ListPeople, http.StatusOK))
	e.POST("/people", Handle(h.Handler, h.CreatePerson, http.StatusCreated))
	e.GET("/people/:id", Handle(h.Handler, h.GetPerson, http.StatusOK), id)
	e.PUT("/people/:id", Handle(h.Handler, h.UpdatePerson, http.StatusOK), id)
	e.DELETE("/people/:id", Handle(h.Handler, h.DeletePerson, http.StatusOK), id)
	return e
}

// --- people -----------------------------------------------------------------

func TestListPeople(t *testing.T) {
	people := &fakePeople{list: []model.Person{
		{ID: 1, FirstName: ptr("Ada"), GenderName: ptr("Female")},
		{ID: 2, FirstName: ptr("Alan")},
	}}

	rec := do(newPeopleEcho(people), http.MethodGet, "/people", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode(t, rec)
	if body["count"] != float64(2) || body["message"] != "Successfully retrieved 2 people" {
		t.Fatalf("unexpected envelope %v", body)
	}
	first := body["people"].([]any)[0].(map[string]any)
	if first["gender_name"] != "Female" || first["contact"] != nil {
		t.Fatalf("unexpected first row %v", first)
	}
}

func TestListPeople_EmptyIsArray(t *testing.T) {
	rec := do(newPeopleEcho(&fakePeople{}), http.MethodGet, "/people", "")
	if !strings.Contains(rec.Body.String(), `"people":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestListPeople_FailureCarriesRawText(t *testing.T) {
	people := &fakePeople{err: errors.New("dial tcp: connection refused")}

	rec := do(newPeopleEcho(people), http.MethodGet, "/people", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Failed to retrieve people from database" || body["error"] != "dial tcp: connection refused" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestGetPerson(t *testing.T) {
	people := &fakePeople{person: &model.Person{ID: 7, Email: ptr("a@b.com")}}

	rec := do(newPeopleEcho(people), http.MethodGet, "/people/7", "")
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["message"] != "Successfully retrieved person 7" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	if body["person"].(map[string]any)["email"] != "a@b.com" {
		t.Fatalf("unexpected person %v", body["person"])
	}
}

func TestGetPerson_NotFoundPassesThrough(t *testing.T) {
	people := &fakePeople{err: errs.NewNotFoundError("Person with ID 9 not found", true, nil)}

	rec := do(newPeopleEcho(people), http.MethodGet, "/people/9", "")
	body := decode(t, rec)
	if rec.Code != http.StatusNotFound || body["message"] != "Person with ID 9 not found" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestGetPerson_NonNumericIDIsNotFound(t *testing.T) {
	people := &fakePeople{}

	rec := do(newPeopleEcho(people), http.MethodGet, "/people/abc", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if people.calls != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestCreatePerson(t *testing.T) {
	people := &fakePeople{createdID: 42}

	rec := do(newPeopleEcho(people), http.MethodPost, "/people",
		`{"first_name":"A","last_name":"B","email":"a@b.com","gender":"Female"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode(t, rec)
	if body["person_id"] != float64(42) || body["message"] != "Person added successfully" {
		t.Fatalf("unexpected body %v", body)
	}
	if people.created == nil || people.created.Email != "a@b.com" || people.created.Gender == nil || *people.created.Gender != "Female" {
		t.Fatalf("unexpected service input %+v", people.created)
	}
	if people.created.Contact != nil {
		t.Fatalf("absent contact must stay nil")
	}
}

func TestCreatePerson_MissingRequiredField(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"missing first name": {`{"last_name":"B","email":"a@b.com"}`, "first_name"},
		"null last name":     {`{"first_name":"A","last_name":null,"email":"a@b.com"}`, "last_name"},
		"empty email":        {`{"first_name":"A","last_name":"B","email":""}`, "email"},
		"all missing":        {`{}`, "first_name"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			people := &fakePeople{}

			rec := do(newPeopleEcho(people), http.MethodPost, "/people", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			body := decode(t, rec)
			if body["message"] != "Missing required field: "+tc.field {
				t.Fatalf("unexpected message %v", body["message"])
			}
			if people.calls != 0 {
				t.Fatalf("service must not be called")
			}
		})
	}
}

func TestCreatePerson_MalformedJSON(t *testing.T) {
	rec := do(newPeopleEcho(&fakePeople{}), http.MethodPost, "/people", `{"first_name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdatePerson(t *testing.T) {
	people := &fakePeople{affected: 1}

	rec := do(newPeopleEcho(people), http.MethodPut, "/people/3", `{"email":"a@b.com","contact":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode(t, rec)
	if body["message"] != "Person 3 updated successfully" || body["rows_affected"] != float64(1) {
		t.Fatalf("unexpected body %v", body)
	}
	if people.fields["email"] != "a@b.com" {
		t.Fatalf("unexpected fields %v", people.fields)
	}
	if v, ok := people.fields["contact"]; !ok || v != nil {
		t.Fatalf("explicit null must reach the service, got %v", people.fields)
	}
}

func TestUpdatePerson_ZeroRowsIsStillSuccess(t *testing.T) {
	rec := do(newPeopleEcho(&fakePeople{}), http.MethodPut, "/people/999", `{"email":"x@y.z"}`)
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["rows_affected"] != float64(0) {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestUpdatePerson_NonObjectBody(t *testing.T) {
	people := &fakePeople{}

	rec := do(newPeopleEcho(people), http.MethodPut, "/people/3", `["email"]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if people.calls != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestDeletePerson(t *testing.T) {
	rec := do(newPeopleEcho(&fakePeople{}), http.MethodDelete, "/people/5", "")
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["message"] != "Person 5 deleted successfully" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

// --- activities ---------------------------------------------------------------

func newActivitiesEcho(activities *fakeActivities) *echo.Echo {
	s := newTestServer()
	e := newTestEcho(s)
	h := NewActivitiesHandler(s, activities)
	id := middleware.IntParam("id")

	e.GET("/activities", Handle(h.Handler, h.ListActivities, http.StatusOK))
	e.GET("/activities/person/:id", Handle(h.Handler, h.ListActivitiesByPerson, http.StatusOK), id)
	e.PUT("/activities/:id", Handle(h.Handler, h.UpdateActivities, http.StatusOK), id)
	return e
}

func TestListActivities(t *testing.T) {
	activities := &fakeActivities{list: []model.Activity{{ActivityID: 1, PersonID: 1, Activity1: ptr(true)}}}

	rec := do(newActivitiesEcho(activities), http.MethodGet, "/activities", "")
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["count"] != float64(1) || body["message"] != "Successfully retrieved 1 activities" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestListActivitiesByPerson(t *testing.T) {
	activities := &fakeActivities{}

	rec := do(newActivitiesEcho(activities), http.MethodGet, "/activities/person/12", "")
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["message"] != "Successfully retrieved activities for person 12" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	if activities.personID != 12 {
		t.Fatalf("expected person id 12, got %d", activities.personID)
	}
	if !strings.Contains(rec.Body.String(), `"activities":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestListActivitiesByPerson_Failure(t *testing.T) {
	activities := &fakeActivities{err: errors.New("boom")}

	rec := do(newActivitiesEcho(activities), http.MethodGet, "/activities/person/4", "")
	body := decode(t, rec)
	if rec.Code != http.StatusInternalServerError || body["message"] != "Failed to retrieve activities for person 4" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestUpdateActivities(t *testing.T) {
	rec := do(newActivitiesEcho(&fakeActivities{affected: 1}), http.MethodPut, "/activities/8", `{"transport":true}`)
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["message"] != "Activities 8 updated successfully" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestUpdateActivities_ValidationErrorPassesThrough(t *testing.T) {
	activities := &fakeActivities{err: errs.NewBadRequestError("No valid fields to update", true, nil, nil)}

	rec := do(newActivitiesEcho(activities), http.MethodPut, "/activities/8", `{"colour":"red"}`)
	body := decode(t, rec)
	if rec.Code != http.StatusBadRequest || body["message"] != "No valid fields to update" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

// --- reference ----------------------------------------------------------------

func newReferenceEcho(reference *fakeReference) *echo.Echo {
	s := newTestServer()
	e := newTestEcho(s)
	h := NewReferenceHandler(s, reference)

	e.GET("/gender", Handle(h.Handler, h.ListGenders, http.StatusOK))
	e.GET("/activity1", Handle(h.Handler, h.ListActivity1People, http.StatusOK))
	e.GET("/transport", Handle(h.Handler, h.ListTransportPeople, http.StatusOK))
	return e
}

func TestListGenders(t *testing.T) {
	reference := &fakeReference{genders: []model.Gender{{GenderID: 1, GenderName: "Male"}, {GenderID: 2, GenderName: "Female"}}}

	rec := do(newReferenceEcho(reference), http.MethodGet, "/gender", "")
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["message"] != "Successfully retrieved 2 gender types" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestViews(t *testing.T) {
	cases := []struct {
		target  string
		view    repository.View
		key     string
		message string
	}{
		{"/activity1", repository.ViewActivity1, "activity1_people", "Successfully retrieved 1 people with activity1 = true"},
		{"/transport", repository.ViewTransport, "transport_people", "Successfully retrieved 1 people with transport = true"},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			reference := &fakeReference{rows: []model.ProjectedPerson{{ID: 1}}}

			rec := do(newReferenceEcho(reference), http.MethodGet, tc.target, "")
			body := decode(t, rec)
			if rec.Code != http.StatusOK || body["message"] != tc.message || body["count"] != float64(1) {
				t.Fatalf("unexpected response %d %v", rec.Code, body)
			}
			if rows, ok := body[tc.key].([]any); !ok || len(rows) != 1 {
				t.Fatalf("expected rows under %q, got %v", tc.key, body)
			}
			if reference.view != tc.view {
				t.Fatalf("expected view %q, got %q", tc.view, reference.view)
			}
		})
	}
}

func TestViews_Failure(t *testing.T) {
	reference := &fakeReference{err: errors.New("relation \"transport\" does not exist")}

	rec := do(newReferenceEcho(reference), http.MethodGet, "/transport", "")
	body := decode(t, rec)
	if rec.Code != http.StatusInternalServerError || body["message"] != "Failed to retrieve transport people from database" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

// --- system -------------------------------------------------------------------

func TestCheckHealth(t *testing.T) {
	cases := map[string]struct {
		db     pinger
		status int
	}{
		"healthy":     {fakePinger{}, http.StatusOK},
		"ping fails":  {fakePinger{err: errors.New("timeout")}, http.StatusServiceUnavailable},
		"no database": {nil, http.StatusServiceUnavailable},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestServer()
			e := newTestEcho(s)
			e.GET("/status", NewHealthHandler(s, tc.db).CheckHealth)

			rec := do(e, http.MethodGet, "/status", "")
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			body := decode(t, rec)
			if _, ok := body["checks"].(map[string]any)["database"]; !ok {
				t.Fatalf("missing database check %v", body)
			}
		})
	}
}

func TestServeOpenAPIUI(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)

	h := NewOpenAPIHandler(s)
	h.templatePath = filepath.Join(t.TempDir(), "openapi.html")
	if err := os.WriteFile(h.templatePath, []byte("<html>docs</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	e.GET("/docs", h.ServeOpenAPIUI)

	rec := do(e, http.MethodGet, "/docs", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "<html>docs</html>" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-cache" {
		t.Fatalf("expected no-cache header")
	}
}

func newMetaEcho(t *testing.T) (*echo.Echo, *MetaHandler) {
	t.Helper()
	s := newTestServer()
	e := newTestEcho(s)
	h := NewMetaHandler(s, e.Routes)

	e.GET("/", h.Home)
	e.GET("/routes", h.Routes)
	e.GET("/debug", h.Debug)
	e.GET("/test", h.TestConnection)
	return e, h
}

func TestHome(t *testing.T) {
	e, _ := newMetaEcho(t)

	body := decode(t, do(e, http.MethodGet, "/", ""))
	if body["message"] != "People Management API is running!" || body["status"] != "API is ready to use" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRoutes_SortedByPathThenMethod(t *testing.T) {
	e, _ := newMetaEcho(t)
	e.POST("/debug", func(c echo.Context) error { return nil })

	body := decode(t, do(e, http.MethodGet, "/routes", ""))
	routes := body["routes"].([]any)

	var got []string
	for _, r := range routes {
		route := r.(map[string]any)
		got = append(got, route["path"].(string)+" "+route["methods"].([]any)[0].(string))
	}
	want := []string{"/ GET", "/debug GET", "/debug POST", "/routes GET", "/test GET"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDebug_MasksSecrets(t *testing.T) {
	e, h := newMetaEcho(t)
	h.environ = func() []string {
		return []string{
			"DB_HOST=db.internal",
			"DB_PASS=hunter2",
			"DATABASE_URL=postgres://u:p@h/db",
			"PORT=8080",
			"API_KEY_PORT=abc",
			"HOME=/root",
		}
	}

	body := decode(t, do(e, http.MethodGet, "/debug", ""))

	recognized := body["environment_vars"].(map[string]any)
	if recognized["DB_HOST"] != "db.internal" || recognized["DB_PASS"] != "***" || recognized["DB_USER"] != "NOT SET" {
		t.Fatalf("unexpected recognized vars %v", recognized)
	}

	related := body["all_env_vars"].(map[string]any)
	if related["DATABASE_URL"] != "postgres://u:p@h/db" || related["PORT"] != "8080" || related["API_KEY_PORT"] != "***" {
		t.Fatalf("unexpected related vars %v", related)
	}
	if _, ok := related["HOME"]; ok {
		t.Fatalf("unrelated variable leaked %v", related)
	}
}

func TestTestConnection_AlwaysOK(t *testing.T) {
	for _, connected := range []bool{true, false} {
		e, h := newMetaEcho(t)
		h.checkConn = func(context.Context, config.DatabaseConfig) database.ConnCheck {
			if connected {
				return database.ConnCheck{Connected: true, Message: "Connected to PostgreSQL: 16.2"}
			}
			return database.ConnCheck{Message: "Connection failed: refused"}
		}

		rec := do(e, http.MethodGet, "/test", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decode(t, rec)
		if body["database_connected"] != connected {
			t.Fatalf("expected connected=%v, got %v", connected, body)
		}
		env := body["environment_vars"].(map[string]any)
		if env["DB_PASS"] != "***" || env["DB_HOST"] != "db.internal" {
			t.Fatalf("unexpected environment vars %v", env)
		}
	}
}
