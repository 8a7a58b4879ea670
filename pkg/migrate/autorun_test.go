package migrate

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	"github.com/luxurydrive/backoffice/pkg/logger"
)

func newSQLiteClient(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()
	dsn := "file:migrate_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db.NewFromConn(conn), conn
}

func devSQLiteConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		FeatureFlags: config.FeatureFlagsConfig{
			UseSQLite:   true,
			SQLitePath:  ":memory:",
			AutoMigrate: true,
		},
	}
}

// The sqlite dev store must come up with working auto-increment keys; the
// goose SQL files are postgres-dialect and never run against sqlite.
func TestMaybeRunDevSQLiteSchemaAssignsIDs(t *testing.T) {
	t.Parallel()

	client, conn := newSQLiteClient(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	if err := MaybeRunDev(context.Background(), devSQLiteConfig(), logg, client); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	car := &models.Car{Name: "Wraith", Brand: "Rolls-Royce", PricePerDay: decimal.NewFromInt(400), Available: true}
	if err := conn.Create(car).Error; err != nil {
		t.Fatalf("insert car: %v", err)
	}
	if car.ID == 0 {
		t.Fatal("expected car id to be assigned")
	}

	customer := &models.Customer{Name: "Nadia", Phone: "212600000001"}
	if err := conn.Create(customer).Error; err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	if customer.ID == 0 {
		t.Fatal("expected customer id to be assigned")
	}

	reservation := &models.Reservation{
		CustomerID: customer.ID,
		CarID:      car.ID,
		Total:      decimal.NewFromInt(400),
		Status:     "pending",
	}
	if err := conn.Create(reservation).Error; err != nil {
		t.Fatalf("insert reservation: %v", err)
	}
	if reservation.ID == 0 {
		t.Fatal("expected reservation id to be assigned")
	}
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	t.Parallel()

	client, conn := newSQLiteClient(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	cfg := devSQLiteConfig()
	cfg.App.Env = config.AppEnvProd
	if err := MaybeRunDev(context.Background(), cfg, logg, client); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}

	if conn.Migrator().HasTable(&models.Car{}) {
		t.Fatal("expected no tables outside dev mode")
	}
}
