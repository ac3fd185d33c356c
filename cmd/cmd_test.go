package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/task-management/internal"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gormLogger "gorm.io/gorm/logger"
)

const sampleConfig = `
http_server:
  port: 9090
  allowed_origins: "*"
  request_timeout: 3s
database:
  driver: sqlite
  source: "file::memory:?cache=shared"
security:
  jwt_secret: "a-test-secret-that-is-long-enough"
  access_token_duration: 30m
  bcrypt_cost: 4
cache:
  enabled: true
  driver: memory
  ttl: 1m
  capacity: 100
  num_shards: 2
  eviction_percentage: 10
audit:
  enabled: false
  driver: log
  dir: logs
pagination:
  default_per_page: 5
logging:
  level: error
  format: text
`

var _ = Describe("loadConfig", func() {
	It("reads config.yml from the given directory", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(sampleConfig), 0o644)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Database.Driver).To(Equal(driverSQLite))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(30 * time.Minute))
		Expect(cfg.ServiceOptions()).To(Equal(internal.ServiceOptions{CacheEnabled: true, DefaultPerPage: 5}))
	})

	It("feeds the http_server request timeout to the router", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(sampleConfig), 0o644)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		cfg.OpenAPI.Path = filepath.Join(dir, "missing.yml")

		opts := routerOptions(cfg)
		Expect(opts.RequestTimeout).To(Equal(3 * time.Second))
		Expect(opts.AllowedOrigins).To(Equal("*"))
		Expect(opts.SpecPath).To(BeEmpty())

		cfg.OpenAPI.Path = filepath.Join(dir, "config.yml")
		Expect(routerOptions(cfg).SpecPath).To(Equal(cfg.OpenAPI.Path))
	})

	It("fails when the file is missing", func() {
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("initDB", func() {
	It("opens and migrates a sqlite database", func() {
		gormDB, db, err := initDB(internal.DatabaseConfig{Driver: driverSQLite, Source: "file::memory:"}, "error")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		Expect(gormDB.Create(&userDatamodel.User{Name: "Ann", Email: "ann@mail.com", PasswordHash: "x"}).Error).To(Succeed())

		var count int
		Expect(db.Get(&count, "SELECT COUNT(*) FROM users")).To(Succeed())
		Expect(count).To(Equal(1))
	})

	It("seeds idempotently", func() {
		gormDB, db, err := initDB(internal.DatabaseConfig{Driver: driverSQLite, Source: "file::memory:"}, "error")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		Expect(seed(gormDB, 4)).To(Succeed())
		Expect(seed(gormDB, 4)).To(Succeed())

		var users, tasks, roles, permissions int
		Expect(db.Get(&users, "SELECT COUNT(*) FROM users")).To(Succeed())
		Expect(db.Get(&tasks, "SELECT COUNT(*) FROM tasks")).To(Succeed())
		Expect(db.Get(&roles, "SELECT COUNT(*) FROM roles")).To(Succeed())
		Expect(db.Get(&permissions, "SELECT COUNT(*) FROM permissions")).To(Succeed())
		Expect(users).To(Equal(2))
		Expect(tasks).To(Equal(3))
		Expect(roles).To(Equal(3))
		Expect(permissions).To(Equal(7))

		Expect(clearTables(gormDB)).To(Succeed())
		Expect(db.Get(&users, "SELECT COUNT(*) FROM users")).To(Succeed())
		Expect(users).To(BeZero())
	})
})

var _ = Describe("gormLogLevel", func() {
	It("maps application levels to gorm levels", func() {
		Expect(gormLogLevel("debug")).To(Equal(gormLogger.Info))
		Expect(gormLogLevel("error")).To(Equal(gormLogger.Error))
		Expect(gormLogLevel("info")).To(Equal(gormLogger.Warn))
	})
})
