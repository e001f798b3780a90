//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"memberdesk/internal/admin/models"
	"memberdesk/internal/admin/store"
	"memberdesk/pkg/platform/sentinel"
	"memberdesk/pkg/testutil/containers"
)

type PostgresAdminStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresAdminStore
}

func TestPostgresAdminStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAdminStoreSuite))
}

func (s *PostgresAdminStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresAdminStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "admins"))
}

func testAdmin(username string) *models.Admin {
	return &models.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "$2a$10$invalidhashforfixturesonly",
		Email:        username + "@example.com",
	}
}

func (s *PostgresAdminStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	admin := testAdmin("root")

	s.Require().NoError(s.store.Create(ctx, admin))

	found, err := s.store.FindByUsername(ctx, "root")
	s.Require().NoError(err)
	s.Equal(admin.ID, found.ID)
	s.Equal(admin.PasswordHash, found.PasswordHash)

	_, err = s.store.FindByUsername(ctx, "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresAdminStoreSuite) TestAny() {
	ctx := context.Background()

	any, err := s.store.Any(ctx)
	s.Require().NoError(err)
	s.False(any)

	s.Require().NoError(s.store.Create(ctx, testAdmin("root")))

	any, err = s.store.Any(ctx)
	s.Require().NoError(err)
	s.True(any)
}

// TestConcurrentSetupRace verifies the unique constraint holds the one-time
// setup gate under concurrent attempts.
func (s *PostgresAdminStoreSuite) TestConcurrentSetupRace() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, testAdmin("root"))
			switch err {
			case nil:
				successCount.Add(1)
			case sentinel.ErrConflict:
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load())
}
