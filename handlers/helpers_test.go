package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wpendl99/jwt-pizza-service/config"
	"github.com/wpendl99/jwt-pizza-service/database"
	"github.com/wpendl99/jwt-pizza-service/routes"
)

// setupRouter builds a fresh service on a temp database, seeded with the
// default admin and menu.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.App = &config.Config{
		Version:     "test",
		SQLitePath:  filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:   []byte("test_secret"),
		ListPerPage: 10,
	}
	store, err := database.Open(config.App)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	database.DB = store
	store.Seed()

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	list := []map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return list
}

// registerDiner creates an account and returns its user object and token.
func registerDiner(t *testing.T, r *gin.Engine, name, email, password string) (map[string]interface{}, string) {
	t.Helper()
	w := doJSON(t, r, "POST", "/api/auth", "", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if w.Code != 201 {
		t.Fatalf("register %s: %d %s", email, w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]interface{})
	token, _ := body["token"].(string)
	if user == nil || token == "" {
		t.Fatalf("malformed register response: %s", w.Body.String())
	}
	return user, token
}

// loginAdmin authenticates as the seeded default admin.
func loginAdmin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, "PUT", "/api/auth", "", gin.H{
		"email":    "a@jwt.com",
		"password": "admin",
	})
	if w.Code != 200 {
		t.Fatalf("admin login: %d %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatal("admin login returned no token")
	}
	return token
}

func userID(t *testing.T, user map[string]interface{}) int {
	t.Helper()
	id, ok := user["id"].(float64)
	if !ok {
		t.Fatalf("user has no id: %+v", user)
	}
	return int(id)
}
