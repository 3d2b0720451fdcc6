package rest_test

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/transport/rest"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

var _ = Describe("Operational routes", func() {
	var (
		sqlDB  *sql.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		cfg := &internal.Config{
			Database: internal.DatabaseConfig{
				Driver:       database.DriverSQLite,
				Source:       ":memory:",
				MaxOpenConns: 1,
				MaxIdleConns: 1,
			},
			Observability: internal.ObservabilityConfig{
				Metrics: internal.MetricsConfig{Enabled: true, Path: "/metrics"},
			},
		}

		db, err := database.Open(cfg.Database)
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err = db.DB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = sqlDB.Close()
		})

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, sqlDB, cfg, logger)
	})

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	It("should answer the liveness probe with a trace id", func() {
		rec := serve("/api/v1/ping")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("should report a reachable database as healthy", func() {
		rec := serve("/api/v1/health")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Status).To(Equal(rest.HealthHealthy))
		Expect(body.Components).To(HaveKey(database.DriverSQLite))
	})

	It("should report a closed database as unavailable", func() {
		Expect(sqlDB.Close()).To(Succeed())

		rec := serve("/api/v1/health")
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))

		var body rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Status).To(Equal(rest.HealthUnhealthy))
	})

	It("should answer unknown routes with a JSON 404", func() {
		rec := serve("/api/v1/users")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		Expect(rec.Body.String()).To(ContainSubstring("route not found"))
	})

	It("should expose prometheus metrics", func() {
		serve("/api/v1/ping")

		rec := serve("/metrics")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("timesheet_http_requests_total"))
	})
})
