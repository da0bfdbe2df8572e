package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/config"
	"github.com/example/fitgear/internal/database"
	"github.com/example/fitgear/internal/models"
	"github.com/example/fitgear/internal/utils"
)

type testEnv struct {
	T   *testing.T
	App *fiber.App
	DB  *gorm.DB
	Cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		Currency:     "php",
		ShippingFee:  150,
	}

	return &testEnv{
		T:   t,
		App: fiber.New(),
		DB:  db,
		Cfg: cfg,
	}
}

func (env *testEnv) createUser(role models.Role) (models.User, string) {
	hash, err := utils.HashPassword("password")
	require.NoError(env.T, err)

	user := models.User{
		Username:     "user-" + uuid.NewString()[:8],
		FullName:     "Test User",
		Phone:        "09170000001",
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	token, err := utils.GenerateToken(env.Cfg.JWTSecret, user.ID, env.Cfg.TokenExpires)
	require.NoError(env.T, err)

	return user, token
}

func (env *testEnv) createProduct(name string, price float64, stock int) models.Product {
	product := models.Product{
		SKU:    "SKU-" + name,
		Name:   name,
		Price:  price,
		Stock:  stock,
		Status: models.ProductStatusActive,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return product
}

func (env *testEnv) doJSON(method, path string, payload interface{}, token string) *http.Response {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.App.Test(req, -1)
	require.NoError(env.T, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}
