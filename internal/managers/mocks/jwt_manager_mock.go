package mocks

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

// MockJwtManager is a mock of the JWTManager.
// It is used to simulate JWT operations in tests that do not need real keys.
type MockJwtManager struct {
	mock.Mock
}

func (m *MockJwtManager) GenerateJWT(userId, nickname string, isRefreshToken bool) (string, error) {
	args := m.Called(userId, nickname, isRefreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockJwtManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(jwt.Claims)
	return claims, args.Error(1)
}

func (m *MockJwtManager) JWTMiddleware() gin.HandlerFunc {
	args := m.Called()
	return args.Get(0).(gin.HandlerFunc)
}
