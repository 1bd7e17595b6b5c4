package repository

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/forms-service/internal/migrations"
	"github.com/magabrotheeeer/forms-service/internal/models"
)

// testDatabase описывает поднятый контейнер PostgreSQL.
type testDatabase struct {
	storage        *Storage
	maintenanceDSN string
}

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *testDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("forms"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := Connect(dsn, 10, time.Second)
	require.NoError(t, err, "failed to create storage after retries")
	t.Cleanup(func() { _ = storage.Close() })

	projectRoot, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(projectRoot, "migrations")))

	maintenance, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return &testDatabase{
		storage:        storage,
		maintenanceDSN: replaceDatabase(t, maintenance, "postgres"),
	}
}

func replaceDatabase(t *testing.T, dsn, dbName string) string {
	t.Helper()
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	u.Path = "/" + dbName
	return u.String()
}

func strPtr(s string) *string { return &s }

func sampleCancellation() models.CreateCancellation {
	return models.CreateCancellation{
		Email:             "jane@example.com",
		Name:              "Jane",
		LastName:          "Doe",
		Address:           "Main street 1",
		Town:              "Springfield",
		TownNumber:        "12345",
		IsUnordinary:      true,
		Reason:            strPtr("moving abroad"),
		LastInvoiceNumber: "INV-2024-001",
		TerminationDate:   "2025-03-31",
	}
}

func feedbackInput(email *string, text string) models.CreateFeedback {
	return models.CreateFeedback{Email: email, Text: text}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}
