package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const testSecret = "test-secret"

type testAPI struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	db := testhelpers.SetupTestDB(t)
	cfg := &config.Config{
		Environment: config.Test,
		ServerHost:  "localhost",
		ServerPort:  "0",
		JWTSecret:   testSecret,
	}
	return &testAPI{t: t, db: db, handler: server.New(cfg, db, server.Deps{}).Handler()}
}

func (a *testAPI) token(user models.User) string {
	token, err := service.NewAuthService(testSecret).GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username})
	require.NoError(a.t, err)
	return token
}

// do sends body as JSON; token may be empty for anonymous calls
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type apiFixture struct {
	*testAPI
	alice     models.User
	bob       models.User
	salt      models.Ingredient
	flour     models.Ingredient
	breakfast models.Tag
}

func setupAPI(t *testing.T) *apiFixture {
	a := newTestAPI(t)
	return &apiFixture{
		testAPI:   a,
		alice:     testhelpers.CreateUser(t, a.db, "alice"),
		bob:       testhelpers.CreateUser(t, a.db, "bob"),
		salt:      testhelpers.CreateIngredient(t, a.db, "Salt", "g"),
		flour:     testhelpers.CreateIngredient(t, a.db, "Flour", "g"),
		breakfast: testhelpers.CreateTag(t, a.db, "Breakfast", "#E26C2D", "breakfast"),
	}
}

func (f *apiFixture) draft(name string) map[string]any {
	return map[string]any{
		"name":         name,
		"text":         "Mix and bake.",
		"cooking_time": 30,
		"ingredients": []map[string]any{
			{"id": f.salt.ID, "amount": 5},
			{"id": f.flour.ID, "amount": 500},
		},
		"tags": []uint{f.breakfast.ID},
	}
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRecipeLifecycle(t *testing.T) {
	f := setupAPI(t)
	alice := f.token(f.alice)
	bob := f.token(f.bob)

	w := f.do(http.MethodPost, "/api/recipes", alice, f.draft("Bread"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.RecipeView](t, w)
	assert.Equal(t, "Bread", created.Name)
	assert.Equal(t, "alice", created.Author.Username)
	assert.Len(t, created.Ingredients, 2)

	path := "/api/recipes/" + jsonID(created.ID)

	w = f.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[types.RecipeView](t, w)
	assert.ElementsMatch(t, created.Ingredients, got.Ingredients)

	w = f.do(http.MethodPatch, path, bob, f.draft("Hijacked"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	update := f.draft("Bread")
	update["ingredients"] = []map[string]any{{"id": f.flour.ID, "amount": 250}}
	w = f.do(http.MethodPatch, path, alice, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[types.RecipeView](t, w)
	assert.Equal(t, []types.RecipeIngredientView{{ID: f.flour.ID, Name: "Flour", MeasurementUnit: "g", Amount: 250}}, updated.Ingredients)

	w = f.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipeErrors(t *testing.T) {
	f := setupAPI(t)
	alice := f.token(f.alice)

	empty := f.draft("Bread")
	empty["ingredients"] = []map[string]any{}

	unknown := f.draft("Bread")
	unknown["ingredients"] = []map[string]any{{"id": 999, "amount": 1}}

	tests := []struct {
		name   string
		token  string
		body   any
		status int
		kind   string
	}{
		{"anonymous", "", f.draft("Bread"), http.StatusUnauthorized, ""},
		{"empty ingredients", alice, empty, http.StatusBadRequest, "validation"},
		{"unknown ingredient", alice, unknown, http.StatusBadRequest, "reference"},
		{"malformed body", alice, "not an object", http.StatusBadRequest, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/recipes", tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.kind != "" {
				body := decode[map[string]any](t, w)
				assert.Equal(t, tt.kind, body["kind"])
			}
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListRecipesEndpoint(t *testing.T) {
	f := setupAPI(t)
	line := []testhelpers.Line{{Ingredient: f.salt, Amount: 1}}
	for _, name := range []string{"One", "Two", "Three"} {
		testhelpers.CreateRecipe(t, f.db, f.alice, name, line, f.breakfast)
	}
	favorite := testhelpers.CreateRecipe(t, f.db, f.bob, "Four", line)
	testhelpers.Favorite(t, f.db, f.alice, favorite)

	w := f.do(http.MethodGet, "/api/recipes?limit=2&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.RecipeView]](t, w)
	assert.Equal(t, int64(4), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Two", page.Results[0].Name)

	w = f.do(http.MethodGet, "/api/recipes?tags=breakfast&author=alice", "", nil)
	page = decode[types.Page[types.RecipeView]](t, w)
	assert.Equal(t, int64(3), page.Count)

	w = f.do(http.MethodGet, "/api/recipes?is_favorited=1", f.token(f.alice), nil)
	page = decode[types.Page[types.RecipeView]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Four", page.Results[0].Name)
	assert.True(t, page.Results[0].IsFavorited)

	w = f.do(http.MethodGet, "/api/recipes?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/recipes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoriteAndCartEndpoints(t *testing.T) {
	f := setupAPI(t)
	recipe := testhelpers.CreateRecipe(t, f.db, f.bob, "Brine", []testhelpers.Line{{Ingredient: f.salt, Amount: 5}})
	alice := f.token(f.alice)
	path := "/api/recipes/" + jsonID(recipe.ID)

	for _, list := range []string{"/favorite", "/shopping_cart"} {
		t.Run(strings.TrimPrefix(list, "/"), func(t *testing.T) {
			w := f.do(http.MethodPost, path+list, alice, nil)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			short := decode[types.ShortRecipe](t, w)
			assert.Equal(t, "Brine", short.Name)

			w = f.do(http.MethodPost, path+list, alice, nil)
			assert.Equal(t, http.StatusConflict, w.Code)

			w = f.do(http.MethodDelete, path+list, alice, nil)
			assert.Equal(t, http.StatusNoContent, w.Code)

			w = f.do(http.MethodDelete, path+list, alice, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = f.do(http.MethodPost, "/api/recipes/999"+list, alice, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = f.do(http.MethodPost, path+list, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	w := f.do(http.MethodPost, "/api/recipes/abc/favorite", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	f := setupAPI(t)
	recipe := testhelpers.CreateRecipe(t, f.db, f.bob, "Brine", []testhelpers.Line{{Ingredient: f.salt, Amount: 5}})
	testhelpers.AddToCart(t, f.db, f.alice, recipe)

	w := f.do(http.MethodGet, "/api/recipes/download_shopping_cart", f.token(f.alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_list.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = f.do(http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionEndpoints(t *testing.T) {
	f := setupAPI(t)
	testhelpers.CreateRecipe(t, f.db, f.bob, "Brine", []testhelpers.Line{{Ingredient: f.salt, Amount: 5}})
	alice := f.token(f.alice)
	path := "/api/users/" + jsonID(f.bob.ID) + "/subscribe"

	w := f.do(http.MethodPost, path+"?recipes_limit=1", alice, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decode[types.SubscriptionView](t, w)
	assert.Equal(t, "bob", view.Username)
	assert.True(t, view.IsSubscribed)
	assert.Equal(t, int64(1), view.RecipesCount)

	w = f.do(http.MethodPost, path, alice, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/api/users/"+jsonID(f.alice.ID)+"/subscribe", alice, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodGet, "/api/users/subscriptions", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.SubscriptionView]](t, w)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Len(t, page.Results[0].Recipes, 1)

	w = f.do(http.MethodGet, "/api/users/subscriptions?recipes_limit=-1", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLookupEndpoints(t *testing.T) {
	f := setupAPI(t)

	w := f.do(http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]types.TagView](t, w)
	require.Len(t, tags, 1)
	assert.Equal(t, "breakfast", tags[0].Slug)

	w = f.do(http.MethodGet, "/api/tags/"+jsonID(f.breakfast.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/tags/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ingredients := decode[[]types.IngredientView](t, w)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Flour", ingredients[0].Name)

	w = f.do(http.MethodGet, "/api/ingredients/"+jsonID(f.salt.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":`+jsonID(f.salt.ID)+`,"name":"Salt","measurement_unit":"g"}`, w.Body.String())
}

func jsonID(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
