package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"rfx_ecoverse/internal/config"
	"rfx_ecoverse/internal/utils"
)

// newMockDB opens gorm over a mocked MySQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, mock
}

// testConfig keeps hashing cheap and the secret fixed for assertions
func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		BcryptCost:    bcrypt.MinCost,
		WelcomeBonus:  10,
		ReferralBonus: 50,
	}
}

// authRouter wires only the public auth routes
func authRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/signup", SignupHandler(db, nil, cfg))
	r.POST("/auth/login", LoginHandler(db, cfg))
	return r
}

// postJSON performs a JSON POST against the router under test
func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupCreatesUserWithWelcomeBonus(t *testing.T) {
	db, mock := newMockDB(t)
	cfg := testConfig()

	// Account row and welcome-bonus ledger entry in one transaction
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `transactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := postJSON(t, authRouter(db, cfg), "/auth/signup", gin.H{
		"username": "greta",
		"email":    "greta@example.com",
		"password": "hunter2green",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  UserPayload `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10.0, resp.User.RFXBalance) // Configured welcome bonus
	assert.Equal(t, "user", resp.User.Role)     // New accounts start as user
	assert.NotEmpty(t, resp.User.ReferralCode)
	assert.NotContains(t, w.Body.String(), "password")

	// The minted token carries the stored role
	claims, err := utils.ParseJWT(resp.Token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "user", string(claims.Role))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	w := postJSON(t, authRouter(db, testConfig()), "/auth/signup", gin.H{
		"username": "someoneelse",
		"email":    "taken@example.com",
		"password": "hunter2green",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestSignupMissingFields(t *testing.T) {
	db, _ := newMockDB(t)

	w := postJSON(t, authRouter(db, testConfig()), "/auth/signup", gin.H{
		"username": "greta",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginReturnsTokenWithStoredRole(t *testing.T) {
	db, mock := newMockDB(t)
	cfg := testConfig()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2green"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = ").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "role", "rfx_balance", "joined_at"}).
			AddRow(9, "ops", "ops@example.com", string(hash), "admin", 0, time.Now()))

	w := postJSON(t, authRouter(db, cfg), "/auth/login", gin.H{
		"email":    "ops@example.com",
		"password": "hunter2green",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  UserPayload `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.User.Role)
	assert.NotContains(t, w.Body.String(), string(hash))

	claims, err := utils.ParseJWT(resp.Token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "admin", string(claims.Role)) // Decoded role matches the stored role
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	cfg := testConfig()

	// Wrong password for an existing account
	db1, mock1 := newMockDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("the-real-one"), bcrypt.MinCost)
	require.NoError(t, err)
	mock1.ExpectQuery("SELECT (.+) FROM `users` WHERE email = ").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "role"}).
			AddRow(9, "ops", "ops@example.com", string(hash), "user"))
	wrongPassword := postJSON(t, authRouter(db1, cfg), "/auth/login", gin.H{
		"email":    "ops@example.com",
		"password": "a-wrong-guess",
	})

	// Email that does not exist at all
	db2, mock2 := newMockDB(t)
	mock2.ExpectQuery("SELECT (.+) FROM `users` WHERE email = ").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "role"}))
	unknownEmail := postJSON(t, authRouter(db2, cfg), "/auth/login", gin.H{
		"email":    "ghost@example.com",
		"password": "a-wrong-guess",
	})

	// Same status, same body: the failure never reveals whether the email exists
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}
