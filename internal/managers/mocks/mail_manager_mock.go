package mocks

import "github.com/stretchr/testify/mock"

// MockMailManager is a mock of the MailManager used in tests.
type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendVerificationMail(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}
