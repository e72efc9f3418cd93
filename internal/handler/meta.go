package handler

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/config"
	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/middleware"
	"github.com/deppfellow/people-api/internal/server"
)

// recognizedEnvVars are reported by /debug whether or not they are set.
var recognizedEnvVars = []string{
	"PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASS",
	"DATABASE_HOST", "DATABASE_PORT", "DATABASE_NAME", "DATABASE_USER", "DATABASE_PASSWORD",
}

var (
	debugNameMarkers  = []string{"DB", "DATABASE", "PORT"}
	secretNameMarkers = []string{"PASS", "SECRET", "KEY", "TOKEN"}
)

// MetaHandler serves the introspection endpoints: home, routes, debug and
// the connection test.
type MetaHandler struct {
	Handler
	routes    func() []*echo.Route
	environ   func() []string
	checkConn func(ctx context.Context, cfg config.DatabaseConfig) database.ConnCheck
}

// NewMetaHandler takes the router's route listing so /routes reflects what
// was actually registered.
func NewMetaHandler(s *server.Server, routes func() []*echo.Route) *MetaHandler {
	return &MetaHandler{
		Handler:   NewHandler(s),
		routes:    routes,
		environ:   os.Environ,
		checkConn: database.CheckConnection,
	}
}

func (h *MetaHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "People Management API is running!",
		"endpoints": map[string]string{
			"test":                 "/test",
			"debug":                "/debug",
			"routes":               "/routes",
			"status":               "/status",
			"docs":                 "/docs",
			"people":               "/people",
			"person_by_id":         "/people/<id>",
			"add_person":           "/people (POST)",
			"update_person":        "/people/<id> (PUT)",
			"delete_person":        "/people/<id> (DELETE)",
			"activities":           "/activities",
			"activities_by_person": "/activities/person/<id>",
			"update_activities":    "/activities/<id> (PUT)",
			"activity1_people":     "/activity1",
			"transport_people":     "/transport",
			"genders":              "/gender",
		},
		"status": "API is ready to use",
	})
}

type routeInfo struct {
	Endpoint string   `json:"endpoint"`
	Methods  []string `json:"methods"`
	Path     string   `json:"path"`
}

func (h *MetaHandler) Routes(c echo.Context) error {
	registered := h.routes()

	routes := make([]routeInfo, 0, len(registered))
	for _, r := range registered {
		routes = append(routes, routeInfo{
			Endpoint: r.Name,
			Methods:  []string{r.Method},
			Path:     r.Path,
		})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Methods[0] < routes[j].Methods[0]
	})

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Available routes",
		"routes":  routes,
	})
}

func isSecretName(name string) bool {
	for _, marker := range secretNameMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func maskValue(name, value string) string {
	if isSecretName(name) {
		return "***"
	}
	return value
}

func (h *MetaHandler) Debug(c echo.Context) error {
	env := make(map[string]string)
	for _, kv := range h.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok {
			env[name] = value
		}
	}

	recognized := make(map[string]string, len(recognizedEnvVars))
	for _, name := range recognizedEnvVars {
		value, ok := env[name]
		if !ok || value == "" {
			recognized[name] = "NOT SET"
			continue
		}
		recognized[name] = maskValue(name, value)
	}

	related := make(map[string]string)
	for name, value := range env {
		for _, marker := range debugNameMarkers {
			if strings.Contains(name, marker) {
				related[name] = maskValue(name, value)
				break
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":          "Debug information",
		"environment_vars": recognized,
		"all_env_vars":     related,
	})
}

// TestConnection reports on a fresh database connection. It always
// answers 200; the outcome is in the body.
func (h *MetaHandler) TestConnection(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	result := h.checkConn(ctx, h.server.Config.Database)
	if !result.Connected {
		middleware.GetLogger(c).Warn().Str("result", result.Message).Msg("database connection test failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":            "People API is running!",
		"database_connected": result.Connected,
		"database_message":   result.Message,
		"environment_vars":   h.server.Config.Database.Masked(),
	})
}
