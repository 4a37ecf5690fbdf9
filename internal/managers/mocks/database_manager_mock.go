package mocks

import (
	"github.com/stretchr/testify/mock"

	"bookmark-server/internal/interfaces"
)

// MockDatabaseManager is a mock of the DatabaseManager used in tests.
type MockDatabaseManager struct {
	mock.Mock
}

func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	return args.Get(0).(interfaces.PgxPoolIface)
}
