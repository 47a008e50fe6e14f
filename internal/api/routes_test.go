package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/fairway/internal/auth"
	"github.com/playmatatu/fairway/internal/config"
	"github.com/playmatatu/fairway/internal/game"
)

// setupAPI builds the router without DB or Redis and returns it with an
// access token for player 5.
func setupAPI(t *testing.T) (*gin.Engine, *config.Config, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Environment: "development", JWTSecret: "api-test", TokenTTLHours: 1, SimTickHz: 60, SessionIdleMinutes: 15}
	game.Manager = game.NewSessionManager(nil, nil, cfg)

	router := gin.New()
	SetupRoutes(router, nil, nil, cfg)

	token, _, err := auth.Issue(cfg.JWTSecret, 5, "sam", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return router, cfg, token
}

func do(router *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad JSON %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	router, _, _ := setupAPI(t)
	w := do(router, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["status"] != "ok" || body["database"] != "disabled" || body["redis"] != "disabled" {
		t.Errorf("health = %v", body)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	router, _, _ := setupAPI(t)
	for _, path := range []string{"/api/v1/courses", "/api/v1/players/me", "/api/v1/sessions/abc"} {
		if w := do(router, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, w.Code)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	router, _, _ := setupAPI(t)

	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"short username", map[string]string{"username": "ab", "pin": "1234"}, http.StatusBadRequest},
		{"bad pin", map[string]string{"username": "golfer", "pin": "12a4"}, http.StatusBadRequest},
		{"valid without database", map[string]string{"username": "Golfer_1", "pin": "1234"}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(router, http.MethodPost, "/api/v1/auth/register", "", tc.body); w.Code != tc.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}

	if w := do(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("login without pin status = %d, want 400", w.Code)
	}
}

func TestCoursesListsFlatRange(t *testing.T) {
	router, _, token := setupAPI(t)
	w := do(router, http.MethodGet, "/api/v1/courses", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	courses := decode(t, w)["courses"].([]interface{})
	if len(courses) != 1 || courses[0].(map[string]interface{})["name"] != "Flat Range" {
		t.Errorf("courses = %v", courses)
	}
}

func TestSessionLifecycle(t *testing.T) {
	router, cfg, token := setupAPI(t)

	w := do(router, http.MethodPost, "/api/v1/sessions", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", w.Code, w.Body.String())
	}
	session := decode(t, w)["token"].(string)
	base := "/api/v1/sessions/" + session

	if w := do(router, http.MethodGet, base, token, nil); w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}
	other, _, _ := auth.Issue(cfg.JWTSecret, 6, "kim", time.Hour)
	if w := do(router, http.MethodGet, base, other, nil); w.Code != http.StatusForbidden {
		t.Errorf("get by another player status = %d, want 403", w.Code)
	}

	shot := game.ShotInput{Power: 35, DirectionX: 1, DirectionZ: 1, LoftDegrees: 18}
	if w := do(router, http.MethodPost, base+"/hit", token, shot); w.Code != http.StatusAccepted {
		t.Fatalf("hit status = %d (%s)", w.Code, w.Body.String())
	}
	if w := do(router, http.MethodPost, base+"/hit", token, shot); w.Code != http.StatusConflict {
		t.Errorf("second hit status = %d, want 409", w.Code)
	}

	for i := 0; i < 60*180; i++ {
		game.Manager.Tick(context.Background(), cfg.TickSeconds())
		st, _ := game.Manager.GetState(session)
		if st.LastShot != nil {
			break
		}
	}

	w = do(router, http.MethodGet, base+"/shots", token, nil)
	if w.Code != http.StatusOK || decode(t, w)["count"].(float64) != 1 {
		t.Errorf("shots = %d %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodPost, base+"/reset", token, map[string]interface{}{"position": []float64{3, 0, 4}})
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d (%s)", w.Code, w.Body.String())
	}
	pos := decode(t, w)["ball"].(map[string]interface{})["position"].([]interface{})
	if pos[0].(float64) != 3 || pos[2].(float64) != 4 {
		t.Errorf("reset position = %v", pos)
	}

	if w := do(router, http.MethodDelete, base, other, nil); w.Code != http.StatusForbidden {
		t.Errorf("delete by another player status = %d, want 403", w.Code)
	}
	if w := do(router, http.MethodDelete, base, token, nil); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := do(router, http.MethodGet, base, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestResetDuringFlight(t *testing.T) {
	router, _, token := setupAPI(t)
	base := "/api/v1/sessions/" + decode(t, do(router, http.MethodPost, "/api/v1/sessions", token, nil))["token"].(string)

	shot := game.ShotInput{Power: 60, DirectionZ: -1, LoftDegrees: 20}
	if w := do(router, http.MethodPost, base+"/hit", token, shot); w.Code != http.StatusAccepted {
		t.Fatalf("hit status = %d (%s)", w.Code, w.Body.String())
	}
	game.Manager.Tick(context.Background(), 1.0/60)

	w := do(router, http.MethodPost, base+"/reset", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset while moving status = %d (%s)", w.Code, w.Body.String())
	}
	if ball := decode(t, w)["ball"].(map[string]interface{}); ball["is_resting"] != true {
		t.Errorf("ball after reset = %v", ball)
	}
	if w := do(router, http.MethodPost, base+"/hit", token, shot); w.Code != http.StatusAccepted {
		t.Errorf("hit after reset status = %d, want 202", w.Code)
	}
}

func TestHitRejectsBadInput(t *testing.T) {
	router, _, token := setupAPI(t)
	session := decode(t, do(router, http.MethodPost, "/api/v1/sessions", token, nil))["token"].(string)

	w := do(router, http.MethodPost, "/api/v1/sessions/"+session+"/hit", token, game.ShotInput{Power: 50, LoftDegrees: 10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero direction status = %d, want 400", w.Code)
	}
	if w := do(router, http.MethodPost, "/api/v1/sessions/missing/hit", token, game.ShotInput{Power: 50, DirectionX: 1}); w.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", w.Code)
	}
}

func TestCreateSessionUnknownCourse(t *testing.T) {
	router, _, token := setupAPI(t)
	w := do(router, http.MethodPost, "/api/v1/sessions", token, map[string]int{"course_id": 9})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPlayerRoutesWithoutDatabase(t *testing.T) {
	router, _, token := setupAPI(t)
	if w := do(router, http.MethodGet, "/api/v1/players/me", token, nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("me status = %d, want 503", w.Code)
	}
	w := do(router, http.MethodGet, "/api/v1/players/me/shots", token, nil)
	if w.Code != http.StatusOK || decode(t, w)["count"].(float64) != 0 {
		t.Errorf("my shots = %d %s", w.Code, w.Body.String())
	}
}
