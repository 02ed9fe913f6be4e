// internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pujaya/auction-backend/internal/config"
	"github.com/pujaya/auction-backend/internal/models"
)

type AuthServiceTestSuite struct {
	suite.Suite
	users   *fakeUserRepo
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.users = newFakeUserRepo()

	cfg := &config.Config{}
	cfg.JWT.AccessTokenTTL = 24

	// Empty SMTP config keeps the notification service in log-only mode.
	suite.service = NewAuthService(suite.users, NewNotificationService(cfg), cfg)
}

func (suite *AuthServiceTestSuite) TestRegisterSuccess() {
	resp, err := suite.service.Register(context.Background(), &RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})

	suite.NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Equal(models.UserRoleRegular, resp.User.Role)
	suite.True(resp.User.IsActive)
	suite.NotEqual("Str0ngPass", resp.User.PasswordHash)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	req := &RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "Str0ngPass"}

	_, err := suite.service.Register(context.Background(), req)
	suite.NoError(err)

	_, err = suite.service.Register(context.Background(), req)
	suite.ErrorIs(err, ErrEmailAlreadyInUse)
}

func (suite *AuthServiceTestSuite) TestRegisterWeakPassword() {
	_, err := suite.service.Register(context.Background(), &RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "weak",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestLoginSuccess() {
	_, err := suite.service.Register(context.Background(), &RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})
	suite.NoError(err)

	resp, err := suite.service.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})

	suite.NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Equal("alice@example.com", resp.User.Email)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := suite.service.Register(context.Background(), &RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})
	suite.NoError(err)

	_, err = suite.service.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPass1",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginUnknownEmail() {
	_, err := suite.service.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "Str0ngPass",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginDeactivatedUser() {
	resp, err := suite.service.Register(context.Background(), &RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})
	suite.NoError(err)

	resp.User.IsActive = false
	suite.NoError(suite.users.Save(context.Background(), resp.User))

	_, err = suite.service.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
