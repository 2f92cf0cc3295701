package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"study-planner/internal/repository"
)

type fixture struct {
	tasks    *TaskService
	auth     *AuthService
	accounts *repository.AccountRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	accounts := repository.NewAccountRepository(db)
	auth := NewAuthService(accounts)
	auth.cost = bcrypt.MinCost
	return fixture{
		tasks:    NewTaskService(repository.NewTaskRepository(db)),
		auth:     auth,
		accounts: accounts,
	}
}
