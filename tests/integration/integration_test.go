package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/crm-notify/internal/service"
)

// Тестовые структуры данных соответствующие API
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type Team struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type Member struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type NotifyRequest struct {
	UserID int64 `json:"user_id"`
}

type EnqueuedResponse struct {
	EventID string `json:"event_id"`
}

type ActivateResponse struct {
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type SetIsActiveRequest struct {
	UserID    int64  `json:"user_id"`
	IsActive  bool   `json:"is_active"`
	ChangedBy string `json:"changed_by"`
}

// TestE2E_NotificationWorkflow тестирует полный цикл: постановка события в
// очередь, обработка воркером и активация аккаунта по ссылке из письма
func TestE2E_NotificationWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Настраиваем тестовое окружение
	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	// Ждем пока приложение будет готово
	env.WaitForHealthCheck(t)

	// Пользователи: alice ждет активации, bob и charlie уже активны
	aliceID := env.SeedUser(t, "alice@example.com", "alice", false)
	bobID := env.SeedUser(t, "bob@example.com", "bob", true)
	charlieID := env.SeedUser(t, "charlie@example.com", "charlie", true)

	// Получение сервисного токена
	var token string
	t.Run("Issue Service Token", func(t *testing.T) {
		body, _ := json.Marshal(TokenRequest{
			ClientID:     "crm-web",
			ClientSecret: "test-client-secret",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/auth/token", bytes.NewReader(body), "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, "Token issuance should succeed")

		var tokenResp TokenResponse
		err := json.NewDecoder(resp.Body).Decode(&tokenResp)
		require.NoError(t, err)
		require.NotEmpty(t, tokenResp.Token)

		token = tokenResp.Token
	})

	t.Run("Reject Wrong Client Secret", func(t *testing.T) {
		body, _ := json.Marshal(TokenRequest{
			ClientID:     "crm-web",
			ClientSecret: "wrong-secret",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/auth/token", bytes.NewReader(body), "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Reject Request Without Token", func(t *testing.T) {
		body, _ := json.Marshal(NotifyRequest{UserID: aliceID})

		resp := env.MakeRequest(t, http.MethodPost, "/notify/registration", bytes.NewReader(body), "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Create Team with Members", func(t *testing.T) {
		team := Team{
			Name: "sales",
			Members: []Member{
				{UserID: bobID, Username: "bob"},
				{UserID: charlieID, Username: "charlie"},
			},
		}

		body, _ := json.Marshal(team)
		resp := env.MakeRequest(t, http.MethodPost, "/team/add", bytes.NewReader(body), token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode, "Team creation should succeed")
	})

	t.Run("Reject Duplicate Team", func(t *testing.T) {
		body, _ := json.Marshal(Team{Name: "sales"})

		resp := env.MakeRequest(t, http.MethodPost, "/team/add", bytes.NewReader(body), token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Get Team", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/team/get?name=sales", nil, token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var team Team
		err := json.NewDecoder(resp.Body).Decode(&team)
		require.NoError(t, err)
		assert.Equal(t, "sales", team.Name)
		assert.Len(t, team.Members, 2)
	})

	// Письмо активации: событие уходит в очередь, воркер сохраняет ключ
	var activationKey string
	t.Run("Enqueue Registration Notification", func(t *testing.T) {
		body, _ := json.Marshal(NotifyRequest{UserID: aliceID})

		resp := env.MakeRequest(t, http.MethodPost, "/notify/registration", bytes.NewReader(body), token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		var enqueued EnqueuedResponse
		err := json.NewDecoder(resp.Body).Decode(&enqueued)
		require.NoError(t, err)
		assert.NotEmpty(t, enqueued.EventID)

		activationKey = env.WaitForActivationKey(t, aliceID)
	})

	// Переход по ссылке из письма активирует аккаунт
	t.Run("Activate Account", func(t *testing.T) {
		path := fmt.Sprintf("/auth/activate-user/%s/%s/", service.EncodeUID(aliceID), activationKey)

		resp := env.MakeRequest(t, http.MethodGet, path, nil, "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, "Activation should succeed")

		var activated ActivateResponse
		err := json.NewDecoder(resp.Body).Decode(&activated)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", activated.Email)
		assert.True(t, activated.IsActive)

		// Ключ одноразовый: после активации он удаляется
		var key *string
		err = env.DB.QueryRow(env.ctx,
			`SELECT activation_key FROM users WHERE id = $1`, aliceID,
		).Scan(&key)
		require.NoError(t, err)
		assert.Nil(t, key)
	})

	t.Run("Reject Reused Activation Link", func(t *testing.T) {
		path := fmt.Sprintf("/auth/activate-user/%s/%s/", service.EncodeUID(aliceID), activationKey)

		resp := env.MakeRequest(t, http.MethodGet, path, nil, "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Смена статуса обновляет БД и ставит письмо в очередь
	t.Run("Set Is Active", func(t *testing.T) {
		body, _ := json.Marshal(SetIsActiveRequest{
			UserID:    bobID,
			IsActive:  false,
			ChangedBy: "admin",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/users/setIsActive", bytes.NewReader(body), token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Даем воркеру время обработать событие
		time.Sleep(2 * time.Second)

		var isActive bool
		err := env.DB.QueryRow(env.ctx,
			`SELECT is_active FROM users WHERE id = $1`, bobID,
		).Scan(&isActive)
		require.NoError(t, err)
		assert.False(t, isActive)
	})

	t.Run("Notify Unknown User", func(t *testing.T) {
		body, _ := json.Marshal(NotifyRequest{UserID: 999999})

		// Постановка в очередь принимает событие, воркер отбрасывает его
		resp := env.MakeRequest(t, http.MethodPost, "/notify/registration", bytes.NewReader(body), token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})
}
