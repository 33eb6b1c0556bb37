package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skroutz/ganetimgr/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) SignUp(_ context.Context, email string, password string) (*model.User, error) {
	called := m.Called(email, password)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

func (m *mockUserService) Save(_ context.Context, user *model.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserService) FindById(_ context.Context, id uint) (*model.User, error) {
	called := m.Called(id)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

func (m *mockUserService) UpdateEmail(_ context.Context, id uint, email string) error {
	return m.Called(id, email).Error(0)
}

type mockActionService struct{ mock.Mock }

func (m *mockActionService) RequestEmailChange(_ context.Context, user *model.User, newEmail string) (*model.InstanceAction, error) {
	called := m.Called(user, newEmail)
	action, _ := called.Get(0).(*model.InstanceAction)
	return action, called.Error(1)
}

func newPost(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	request, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	return request
}

func TestHandler_ChangeEmail_SetDirectlyWhenUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userService := &mockUserService{}
	userService.
		On("UpdateEmail", uint(7), "operator@example.com").
		Return(nil)
	handler := NewHandler(userService, &mockActionService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.User{ID: 7})
	c.Request = newPost(t, "/me/email", &ChangeEmailRequest{Email: "operator@example.com"})

	handler.ChangeEmail(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	userService.AssertExpectations(t)
}

func TestHandler_ChangeEmail_DeferredWhenSet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &model.User{ID: 7, Email: "operator@example.com"}
	action := &model.InstanceAction{UserID: 7, Action: model.ActionEmailChange, Value: "new@example.com"}
	actionService := &mockActionService{}
	actionService.
		On("RequestEmailChange", user, "new@example.com").
		Return(action, nil)
	userService := &mockUserService{}
	handler := NewHandler(userService, actionService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Request = newPost(t, "/me/email", &ChangeEmailRequest{Email: "new@example.com"})

	handler.ChangeEmail(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusAccepted, recorder.Code)
	userService.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything)
	actionService.AssertExpectations(t)
}

func TestHandler_ChangeEmail_InvalidAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockUserService{}, &mockActionService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.User{ID: 7})
	c.Request = newPost(t, "/me/email", &ChangeEmailRequest{Email: "not-an-address"})

	handler.ChangeEmail(c)

	require.Len(t, c.Errors.Errors(), 1)
}
