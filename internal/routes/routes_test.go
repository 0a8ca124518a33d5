package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
		AdminEmails:      "Boss@Example.com",
	}

	users := services.NewUserService(db)
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, cfg, users, Handlers{
		Auth:   handlers.NewAuthHandler(services.NewAuthService(db, cfg)),
		Decks:  handlers.NewDeckHandler(services.NewDeckService(db)),
		Cards:  handlers.NewCardHandler(services.NewCardService(db)),
		Users:  handlers.NewUserHandler(users),
		Health: handlers.NewHealthHandler(db),
	})
	return &testApp{app: app, db: db}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// register signs up a user and returns their access token.
func (a *testApp) register(t *testing.T, email string) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret", "name": "Tester",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp struct {
		Status string           `json:"status"`
		Data   dto.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data.Token
}

func (a *testApp) createDeck(t *testing.T, token, name string, public bool) dto.DeckResponse {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/decks", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, status, string(body))

	var deck dto.DeckResponse
	require.NoError(t, json.Unmarshal(body, &deck))

	if public {
		status, body = a.do(t, http.MethodPut, "/api/decks/"+deck.ID.String(), token, map[string]bool{"public": true})
		require.Equal(t, http.StatusOK, status, string(body))
		require.NoError(t, json.Unmarshal(body, &deck))
	}
	return deck
}

func decodeFail(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp), string(body))
	assert.Equal(t, dto.StatusFail, resp.Status)
	return resp
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "ana@example.com", "password": "secret"})
	require.Equal(t, http.StatusCreated, status)

	var registered struct {
		Status string           `json:"status"`
		Data   dto.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &registered))
	assert.Equal(t, dto.StatusSuccess, registered.Status)
	assert.NotEmpty(t, registered.Data.RefreshToken)

	status, body = a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "ana@example.com", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "user already exists", decodeFail(t, body).Message)

	status, body = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	decodeFail(t, body)

	status, body = a.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": registered.Data.RefreshToken})
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = a.do(t, http.MethodPost, "/api/auth/logout", "", map[string]string{"refreshToken": registered.Data.RefreshToken})
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": registered.Data.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = a.do(t, http.MethodGet, "/api/users/me", registered.Data.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"email":"ana@example.com"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(t, http.MethodGet, "/api/decks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized, no token", decodeFail(t, body).Message)

	status, body = a.do(t, http.MethodGet, "/api/decks", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized, token failed", decodeFail(t, body).Message)
}

func TestDeckAccessIsMasked(t *testing.T) {
	a := newTestApp(t)
	owner := a.register(t, "owner@example.com")
	stranger := a.register(t, "stranger@example.com")
	deck := a.createDeck(t, owner, "Private", false)
	path := "/api/decks/" + deck.ID.String()

	status, _ := a.do(t, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusOK, status)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		status, body := a.do(t, method, path, stranger, nil)
		assert.Equal(t, http.StatusNotFound, status, method)
		assert.Equal(t, "deck not found", decodeFail(t, body).Message)
	}

	status, _ = a.do(t, http.MethodPut, path, stranger, map[string]string{"name": "mine now"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = a.do(t, http.MethodGet, "/api/cards/"+deck.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := a.do(t, http.MethodGet, "/api/decks/not-a-uuid", owner, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid deck ID", decodeFail(t, body).Message)

	status, _ = a.do(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestPublicDeckCardsAreReadableAnonymously(t *testing.T) {
	a := newTestApp(t)
	owner := a.register(t, "owner@example.com")
	deck := a.createDeck(t, owner, "Shared", true)

	status, body := a.do(t, http.MethodPost, "/api/cards/"+deck.ID.String(), owner, map[string]string{"front": "hola", "back": "hello"})
	require.Equal(t, http.StatusCreated, status, string(body))

	for _, token := range []string{"", "invalid-token"} {
		status, body = a.do(t, http.MethodGet, "/api/cards/"+deck.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, status, string(body))

		var cards []dto.CardResponse
		require.NoError(t, json.Unmarshal(body, &cards))
		require.Len(t, cards, 1)
		assert.Equal(t, "hola", cards[0].Front)
	}
}

func TestSyncCards(t *testing.T) {
	a := newTestApp(t)
	owner := a.register(t, "owner@example.com")
	stranger := a.register(t, "stranger@example.com")
	deck := a.createDeck(t, owner, "Deck", false)

	status, body := a.do(t, http.MethodPost, "/api/cards/update", owner,
		fmt.Sprintf(`{"deckId":%q,"cards":{"front":"x"}}`, deck.ID))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cards must be an array", decodeFail(t, body).Message)

	status, _ = a.do(t, http.MethodPost, "/api/cards/update", owner, `{"cards":[]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(t, http.MethodPost, "/api/cards/update", owner, map[string]any{
		"deckId": deck.ID,
		"cards":  []map[string]string{{"front": "one"}, {"front": "two", "back": "2"}},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var cards []dto.CardResponse
	require.NoError(t, json.Unmarshal(body, &cards))
	require.Len(t, cards, 2)

	status, body = a.do(t, http.MethodPost, "/api/cards/update", owner, map[string]any{
		"deckId": deck.ID,
		"cards":  []map[string]any{{"id": cards[0].ID, "front": ""}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	decodeFail(t, body)

	status, _ = a.do(t, http.MethodPost, "/api/cards/update", stranger, map[string]any{
		"deckId": deck.ID,
		"cards":  []any{},
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = a.do(t, http.MethodPost, "/api/cards/update", owner, map[string]any{
		"deckId": deck.ID,
		"cards":  []map[string]any{{"id": cards[1].ID, "front": "two", "back": "2"}},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "two", cards[0].Front)
}

func TestSingleCardEndpoints(t *testing.T) {
	a := newTestApp(t)
	owner := a.register(t, "owner@example.com")
	deck := a.createDeck(t, owner, "Deck", false)
	base := "/api/cards/" + deck.ID.String()

	status, body := a.do(t, http.MethodPost, base, owner, map[string]string{"front": "q"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var card dto.CardResponse
	require.NoError(t, json.Unmarshal(body, &card))
	assert.Equal(t, "", card.Back)

	status, body = a.do(t, http.MethodPut, base+"/"+card.ID.String(), owner, map[string]string{"back": "a"})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &card))
	assert.Equal(t, "a", card.Back)

	status, _ = a.do(t, http.MethodDelete, base+"/"+card.ID.String(), owner, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = a.do(t, http.MethodDelete, base+"/"+card.ID.String(), owner, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "card not found in this deck", decodeFail(t, body).Message)
}

func TestPublicCatalogAndCopy(t *testing.T) {
	a := newTestApp(t)
	author := a.register(t, "author@example.com")
	reader := a.register(t, "reader@example.com")

	var source dto.DeckResponse
	for i := 0; i < 25; i++ {
		source = a.createDeck(t, author, fmt.Sprintf("Deck %02d", i), true)
	}
	a.createDeck(t, author, "Private", false)

	status, body := a.do(t, http.MethodGet, "/api/decks/public?page=2&limit=10", "", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var page struct {
		Status string                  `json:"status"`
		Data   dto.PublicDecksResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, dto.StatusSuccess, page.Status)
	assert.Len(t, page.Data.Decks, 10)
	assert.Equal(t, dto.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasMore: true}, page.Data.Pagination)
	require.NotNil(t, page.Data.Decks[0].AuthorName)
	assert.Equal(t, "Tester", *page.Data.Decks[0].AuthorName)

	status, body = a.do(t, http.MethodGet, "/api/decks/public?page=abc&limit=-4", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.Data.Pagination.Page)
	assert.Equal(t, 10, page.Data.Pagination.Limit)

	status, body = a.do(t, http.MethodPost, "/api/decks/"+source.ID.String()+"/copy", reader, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var copied dto.DeckResponse
	require.NoError(t, json.Unmarshal(body, &copied))
	assert.Equal(t, source.Name+" (Copy)", copied.Name)
	assert.False(t, copied.Public)

	status, _ = a.do(t, http.MethodPost, "/api/decks/"+copied.ID.String()+"/copy", author, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminUsers(t *testing.T) {
	a := newTestApp(t)
	user := a.register(t, "user@example.com")
	boss := a.register(t, "boss@example.com")

	status, body := a.do(t, http.MethodGet, "/api/admin/users", user, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", decodeFail(t, body).Message)

	status, body = a.do(t, http.MethodGet, "/api/admin/users", boss, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var resp struct {
		Data []dto.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Len(t, resp.Data, 2)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)

	status, body = a.do(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	decodeFail(t, body)
}
