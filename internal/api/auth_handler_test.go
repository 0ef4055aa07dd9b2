package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrack/internal/api"
	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/mocks"
)

func registerBody(t *testing.T, username, name, password string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"username": username,
		"name":     name,
		"password": password,
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		setupStore     func(*mocks.MockUserStore)
		generateErr    error
		wantStatus     int
		wantMessage    string
		wantToken      bool
		wantStoredUser bool
	}{
		{
			name:           "successful registration",
			body:           `{"username":"alice","name":"Alice Example","password":"secret1"}`,
			wantStatus:     http.StatusCreated,
			wantMessage:    "Registration successful",
			wantToken:      true,
			wantStoredUser: true,
		},
		{
			name: "duplicate username",
			body: `{"username":"alice","name":"Alice Example","password":"secret1"}`,
			setupStore: func(s *mocks.MockUserStore) {
				existing, err := domain.NewUser("alice", "Alice Example", "secret1")
				require.NoError(t, err)
				require.NoError(t, s.Create(context.Background(), existing))
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Username already exists",
		},
		{
			name:       "missing username",
			body:       `{"name":"Alice Example","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       `{"username":"alice","name":"Alice Example"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed JSON",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "token generation failure",
			body:        `{"username":"alice","name":"Alice Example","password":"secret1"}`,
			generateErr: errors.New("signing failed"),
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userStore := mocks.NewMockUserStore()
			if tt.setupStore != nil {
				tt.setupStore(userStore)
			}
			jwtService := &mocks.MockJWTService{Token: "test-token", Err: tt.generateErr}
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}

			handler := api.NewAuthHandler(userStore, jwtService, verifier, nil)

			req := httptest.NewRequest(
				http.MethodPost, "/register", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.Register(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp api.AuthResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
				assert.Equal(t, "alice", resp.User.Username)
				assert.Equal(t, "Alice Example", resp.User.Name)
				if tt.wantToken {
					assert.Equal(t, "test-token", resp.Token)
				}
				if tt.wantStoredUser {
					stored, err := userStore.GetByUsername(context.Background(), "alice")
					require.NoError(t, err)
					assert.Empty(t, stored.Password, "plaintext must not survive registration")
					assert.NotEmpty(t, stored.HashedPassword)
				}
				return
			}

			if tt.wantMessage != "" {
				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	seedUser := func(t *testing.T, s *mocks.MockUserStore) *domain.User {
		t.Helper()
		user, err := domain.NewUser("alice", "Alice Example", "secret1")
		require.NoError(t, err)
		require.NoError(t, s.Create(context.Background(), user))
		return user
	}

	tests := []struct {
		name          string
		body          string
		seed          bool
		passwordOK    bool
		wantStatus    int
		wantMessage   string
		wantToken     string
		wantCompareTo int
	}{
		{
			name:          "successful login",
			body:          `{"username":"alice","password":"secret1"}`,
			seed:          true,
			passwordOK:    true,
			wantStatus:    http.StatusOK,
			wantMessage:   "Login successful",
			wantToken:     "test-token",
			wantCompareTo: 1,
		},
		{
			name:        "unknown username",
			body:        `{"username":"nobody","password":"secret1"}`,
			seed:        true,
			passwordOK:  true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid credentials",
		},
		{
			name:          "wrong password",
			body:          `{"username":"alice","password":"wrong"}`,
			seed:          true,
			passwordOK:    false,
			wantStatus:    http.StatusBadRequest,
			wantMessage:   "Invalid credentials",
			wantCompareTo: 1,
		},
		{
			name:       "missing fields",
			body:       `{"username":"alice"}`,
			seed:       true,
			passwordOK: true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed JSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userStore := mocks.NewMockUserStore()
			if tt.seed {
				seedUser(t, userStore)
			}
			jwtService := &mocks.MockJWTService{Token: "test-token"}
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: tt.passwordOK}

			handler := api.NewAuthHandler(userStore, jwtService, verifier, nil)

			req := httptest.NewRequest(
				http.MethodPost, "/login", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.Login(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCompareTo, verifier.CompareCallCount)

			if tt.wantStatus == http.StatusOK {
				var resp api.AuthResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
				assert.Equal(t, tt.wantToken, resp.Token)
				return
			}

			if tt.wantMessage != "" {
				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}

// Unknown usernames and wrong passwords must be indistinguishable to callers.
func TestLoginFailureResponsesAreUniform(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user, err := domain.NewUser("alice", "Alice Example", "secret1")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), user))

	jwtService := &mocks.MockJWTService{Token: "test-token"}

	doLogin := func(verifier *mocks.MockPasswordVerifier, body string) *httptest.ResponseRecorder {
		handler := api.NewAuthHandler(userStore, jwtService, verifier, nil)
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		handler.Login(rr, req)
		return rr
	}

	unknownUser := doLogin(
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
		`{"username":"nobody","password":"secret1"}`)
	wrongPassword := doLogin(
		&mocks.MockPasswordVerifier{ShouldSucceed: false},
		`{"username":"alice","password":"wrong"}`)

	assert.Equal(t, unknownUser.Code, wrongPassword.Code)
	assert.Equal(t, unknownUser.Body.String(), wrongPassword.Body.String())
}

// Registering a user and logging in with the issued claims exercises the full
// credential round trip with a real principal.
func TestRegisterAssignsFreshUserID(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	var capturedID uuid.UUID
	jwtService := &mocks.MockJWTService{
		GenerateTokenFn: func(ctx context.Context, userID uuid.UUID, username string) (string, error) {
			capturedID = userID
			return "test-token", nil
		},
	}

	handler := api.NewAuthHandler(
		userStore, jwtService, &mocks.MockPasswordVerifier{ShouldSucceed: true}, nil)

	req := httptest.NewRequest(
		http.MethodPost, "/register", registerBody(t, "alice", "Alice Example", "secret1"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Register(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEqual(t, uuid.Nil, capturedID)
	assert.Equal(t, userStore.LastUserID, capturedID)
}
