package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/ratelimit"
	"github.com/gravadigital/convite-api/internal/services"
	"github.com/gravadigital/convite-api/internal/storage/memory"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T, publicLimit int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword("casamento2026")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AdminEmail = "noivos@example.com"
	cfg.Auth.AdminPasswordHash = hash
	cfg.Auth.AdminTokenTTL = time.Hour
	cfg.Auth.ManualTokenTTL = time.Hour
	cfg.Upload.MaxFileSize = 1 << 20

	store := memory.NewContainer()
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret)
	m := metrics.New()
	svc := services.New(cfg, services.Dependencies{Storage: store, Issuer: issuer, Metrics: m})

	srv := New(cfg, Dependencies{
		Services:      svc,
		Storage:       store,
		Issuer:        issuer,
		Metrics:       m,
		PublicLimiter: ratelimit.NewMemory(publicLimit, time.Minute),
	})
	return &testServer{t: t, router: srv.Router()}
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req)
}

func (s *testServer) send(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) login() {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "noivos@example.com",
		"password": "casamento2026",
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var res services.LoginResult
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	s.token = res.Token
}

func TestPing(t *testing.T) {
	s := newTestServer(t, 10)
	w, _ := s.do(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 10)

	w, _ := s.do(http.MethodGet, "/api/admin/invitees", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "noivos@example.com", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login()
	w, _ = s.do(http.MethodGet, "/api/admin/invitees", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuestFlow(t *testing.T) {
	s := newTestServer(t, 100)
	s.login()

	w, env := s.do(http.MethodPost, "/api/admin/invitees", services.InviteeRequest{FullName: "Ana Souza", GuestLimit: 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(http.MethodPost, "/api/admin/invitees", map[string]any{"guest_limit": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.token = ""

	w, env = s.do(http.MethodPost, "/api/rsvp/lookup", map[string]string{"name": "ana souza"})
	require.Equal(t, http.StatusOK, w.Code)
	var lookup services.LookupResult
	require.NoError(t, json.Unmarshal(env.Data, &lookup))
	assert.True(t, lookup.Matched)
	assert.Equal(t, 1, lookup.MaxCompanions)

	w, _ = s.do(http.MethodPost, "/api/rsvp/lookup", map[string]string{"name": "Desconhecido"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	submit := map[string]any{
		"name":       "Ana Souza",
		"phone":      "11999990000",
		"attending":  true,
		"companions": []map[string]string{{"name": "Pedro"}, {"name": "Marta"}},
	}
	w, _ = s.do(http.MethodPost, "/api/rsvp", submit)
	assert.Equal(t, http.StatusBadRequest, w.Code, "over the companion limit")

	submit["companions"] = []map[string]string{{"name": "Pedro", "type": "child"}}
	w, env = s.do(http.MethodPost, "/api/rsvp", submit)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/api/rsvp", submit)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = s.do(http.MethodPost, "/api/rsvp", map[string]any{"name": "Ana Souza", "phone": "1", "attending": true})
	assert.Equal(t, http.StatusConflict, w.Code)

	s.login()
	w, env = s.do(http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash services.Dashboard
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 1, dash.Confirmed)
	assert.Equal(t, 2, dash.ExpectedHeadcount)

	w, _ = s.do(http.MethodGet, "/api/admin/reports/rsvps?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="rsvps.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Ana Souza")

	w, env = s.do(http.MethodGet, "/api/admin/reports/votes", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "kind")

	w, _ = s.do(http.MethodPost, "/api/admin/messages/generate", map[string]string{"guest_name": "Ana Souza"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestManualGate(t *testing.T) {
	s := newTestServer(t, 10)
	s.login()

	w, _ := s.do(http.MethodPut, "/api/admin/settings/manual", services.ManualRequest{
		MainText:        "Bem-vindas",
		PasswordEnabled: true,
		Password:        "padrinhos",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.token = ""

	w, _ = s.do(http.MethodGet, "/api/manual", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/manual/unlock", map[string]string{"password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(http.MethodPost, "/api/manual/unlock", map[string]string{"password": "padrinhos"})
	require.Equal(t, http.StatusOK, w.Code)
	var unlocked services.UnlockResult
	require.NoError(t, json.Unmarshal(env.Data, &unlocked))

	req := httptest.NewRequest(http.MethodGet, "/api/manual?token="+unlocked.Token, nil)
	w, env = s.send(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Bem-vindas")

	s.token = unlocked.Token
	w, _ = s.do(http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "manual tokens do not open the admin area")
}

func TestImportAndUpload(t *testing.T) {
	s := newTestServer(t, 10)
	s.login()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "lista.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Convidado,Total,Convites\nAna Souza,100,3\nBruno Lima,100,1\n"))
	require.NoError(t, mw.WriteField("map", "guest_limit=Convites"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/invitees/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env := s.send(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary services.ImportSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.Imported)

	body.Reset()
	mw = multipart.NewWriter(&body)
	part, err = mw.CreateFormFile("file", "lista.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Convidado,Total\nAna Souza,2\n"))
	require.NoError(t, mw.WriteField("map", "name=Inexistente"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/admin/invitees/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env = s.send(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields["map"], "Inexistente")

	body.Reset()
	mw = multipart.NewWriter(&body)
	part, err = mw.CreateFormFile("file", "lista.pages")
	require.NoError(t, err)
	_, _ = part.Write([]byte("x"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/admin/invitees/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, _ = s.send(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodPost, "/api/admin/gifts", services.GiftRequest{
		Name: "Torradeira", Price: 150, ExternalLink: "https://loja.example.com/t",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	body.Reset()
	mw = multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="torradeira.png"`)
	h.Set("Content-Type", "image/png")
	part, err = mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/admin/gifts/"+created.ID+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env = s.send(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "data:image/png;base64,")

	w, env = s.do(http.MethodGet, "/api/invitation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Torradeira")
}

func TestPublicRateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w, _ := s.do(http.MethodPost, "/api/rsvp/lookup", map[string]string{"name": "Ana"})
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestOriginPatterns(t *testing.T) {
	assert.Equal(t, []string{"convite.example.com", "localhost:3000"},
		originPatterns([]string{"https://convite.example.com", "http://localhost:3000"}))
	assert.Equal(t, []string{"*"}, originPatterns([]string{"*"}))
}

func TestAdminRSVPCompanionChecks(t *testing.T) {
	s := newTestServer(t, 10)
	s.login()

	w, env := s.do(http.MethodPost, "/api/admin/rsvps", services.AdminRSVPRequest{
		FullName:       "Ana Souza",
		IsAttending:    true,
		NumberOfGuests: 1 << 40,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "number_of_guests")

	w, env = s.do(http.MethodPost, "/api/admin/rsvps", services.AdminRSVPRequest{
		FullName:       "Ana Souza",
		IsAttending:    true,
		NumberOfGuests: 1,
		GuestNames: []services.CompanionInput{
			{Name: "Lucas"}, {Name: "Bia"}, {Name: "Teo"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "guest_names")

	w, _ = s.do(http.MethodGet, "/api/admin/rsvps", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Ana Souza")
}
