package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/db/models"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	dsn := "file:db_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Testimonial{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewFromConn(conn)
}

func TestWithTxCommits(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&models.Testimonial{Name: "N", Role: "R", Content: "C", Rating: 5}).Error
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.Testimonial{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed row, got %d", count)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	wantErr := errors.New("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.Testimonial{Name: "N", Role: "R", Content: "C", Rating: 5}).Error; err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.Testimonial{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, got %d rows", count)
	}
}

func TestNewRequiresSQLitePath(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.DBConfig{}, config.FeatureFlagsConfig{UseSQLite: true}, nil)
	if err == nil {
		t.Fatal("expected error for missing sqlite path")
	}
}

func TestNewRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.DBConfig{}, config.FeatureFlagsConfig{}, nil)
	if err == nil {
		t.Fatal("expected error for missing DSN")
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	client := newClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
