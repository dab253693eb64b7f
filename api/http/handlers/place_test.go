package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/placeshare/places/api/http"
	"github.com/placeshare/places/api/http/handlers"
	"github.com/placeshare/places/pkg/auth"
	"github.com/placeshare/places/pkg/geo"
	"github.com/placeshare/places/pkg/health"
	"github.com/placeshare/places/pkg/place"
	"github.com/placeshare/places/pkg/security/jwt"
)

type stubPlaceUC struct {
	createCalls int
	got         place.Place
	getErr      error
	updateErr   error
	deleteErr   error
}

func (s *stubPlaceUC) Create(ctx context.Context, creatorID uuid.UUID, in place.CreateInput, imageRef string) (place.Place, error) {
	s.createCalls++
	return place.Place{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Address:     in.Address,
		Location:    geo.Coordinates{Lat: 40.7484, Lng: -73.9857},
		ImageRef:    imageRef,
		CreatorID:   creatorID,
	}, nil
}

func (s *stubPlaceUC) GetByID(ctx context.Context, id uuid.UUID) (place.Place, error) {
	if s.getErr != nil {
		return place.Place{}, s.getErr
	}
	return s.got, nil
}

func (s *stubPlaceUC) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]place.Place, error) {
	return []place.Place{}, nil
}

func (s *stubPlaceUC) Update(ctx context.Context, callerID, id uuid.UUID, title, description string) (place.Place, error) {
	if s.updateErr != nil {
		return place.Place{}, s.updateErr
	}
	p := s.got
	p.Title = title
	p.Description = description
	return p, nil
}

func (s *stubPlaceUC) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	return s.deleteErr
}

type stubAuthUC struct {
	loginErr error
}

func (s *stubAuthUC) Signup(ctx context.Context, name, email, password, imageRef string) (auth.AuthResult, error) {
	return auth.AuthResult{User: auth.User{ID: uuid.New(), Email: email}, Token: "token"}, nil
}

func (s *stubAuthUC) Login(ctx context.Context, email, password string) (auth.AuthResult, error) {
	if s.loginErr != nil {
		return auth.AuthResult{}, s.loginErr
	}
	return auth.AuthResult{User: auth.User{ID: uuid.New(), Email: email}, Token: "token"}, nil
}

func (s *stubAuthUC) Users(ctx context.Context) ([]auth.User, error) { return []auth.User{}, nil }

type stubArtifacts struct {
	saves   int
	removed []string
}

func (a *stubArtifacts) Save(ctx context.Context, mimeType string, r io.Reader) (string, error) {
	a.saves++
	return "stored.png", nil
}

func (a *stubArtifacts) Remove(ctx context.Context, ref string) error {
	a.removed = append(a.removed, ref)
	return nil
}

func newTestApp(placeUC place.UseCase, authUC auth.AuthUseCase, arts *stubArtifacts, gen *jwt.Generator) *fiber.App {
	app := fiber.New()
	apihttp.Register(app,
		handlers.NewAuthHandler(authUC, arts),
		handlers.NewPlaceHandler(placeUC, arts),
		handlers.NewHealthHandler(health.NewService()),
		jwt.NewAuthMiddleware(gen),
	)
	return app
}

func testGenerator() *jwt.Generator {
	return jwt.NewGenerator("test-secret", "places-backend", time.Hour)
}

func bearerFor(t *testing.T, gen *jwt.Generator, userID uuid.UUID) string {
	t.Helper()
	token, err := gen.Generate(context.Background(), auth.User{ID: userID, Email: "ann@example.com"})
	require.NoError(t, err)
	return "Bearer " + token
}

func placeForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="place.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreatePlace(t *testing.T) {
	gen := testGenerator()
	uc := &stubPlaceUC{}
	arts := &stubArtifacts{}
	app := newTestApp(uc, &stubAuthUC{}, arts, gen)
	userID := uuid.New()

	body, contentType := placeForm(t, map[string]string{
		"title":       "Empire State Building",
		"description": "Famous skyscraper",
		"address":     "20 W 34th St, New York",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/places/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerFor(t, gen, userID))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, arts.saves)

	out := decodeBody(t, resp)
	created, ok := out["place"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, userID.String(), created["creator"], "creator must come from the token, not the payload")
	assert.Equal(t, "stored.png", created["image"])
}

func TestCreatePlaceWithoutToken(t *testing.T) {
	uc := &stubPlaceUC{}
	app := newTestApp(uc, &stubAuthUC{}, &stubArtifacts{}, testGenerator())

	body, contentType := placeForm(t, map[string]string{
		"title":       "Empire State Building",
		"description": "Famous skyscraper",
		"address":     "20 W 34th St, New York",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/places/", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, uc.createCalls, "no entity access without a valid token")
}

func TestCreatePlaceExpiredToken(t *testing.T) {
	gen := testGenerator()
	expired := jwt.NewGenerator("test-secret", "places-backend", -time.Minute)
	uc := &stubPlaceUC{}
	app := newTestApp(uc, &stubAuthUC{}, &stubArtifacts{}, gen)

	body, contentType := placeForm(t, map[string]string{
		"title":       "Empire State Building",
		"description": "Famous skyscraper",
		"address":     "20 W 34th St, New York",
	})
	token, err := expired.Generate(context.Background(), auth.User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/places/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, uc.createCalls)
}

func TestCreatePlaceValidation(t *testing.T) {
	gen := testGenerator()
	uc := &stubPlaceUC{}
	arts := &stubArtifacts{}
	app := newTestApp(uc, &stubAuthUC{}, arts, gen)

	// Description below the 5-character minimum.
	body, contentType := placeForm(t, map[string]string{
		"title":       "Empire State Building",
		"description": "tiny",
		"address":     "20 W 34th St, New York",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/places/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerFor(t, gen, uuid.New()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 0, uc.createCalls)
	assert.Equal(t, 0, arts.saves, "nothing stored for rejected input")
}

func TestDeletePlaceForbidden(t *testing.T) {
	gen := testGenerator()
	uc := &stubPlaceUC{deleteErr: place.ErrDeleteForbidden}
	app := newTestApp(uc, &stubAuthUC{}, &stubArtifacts{}, gen)

	req := httptest.NewRequest(http.MethodDelete, "/api/places/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", bearerFor(t, gen, uuid.New()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, "Users can only delete places they added", out["message"])
}

func TestDeletePlace(t *testing.T) {
	gen := testGenerator()
	app := newTestApp(&stubPlaceUC{}, &stubAuthUC{}, &stubArtifacts{}, gen)

	req := httptest.NewRequest(http.MethodDelete, "/api/places/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", bearerFor(t, gen, uuid.New()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, "Deleted place", out["message"])
}

func TestGetPlaceNotFound(t *testing.T) {
	uc := &stubPlaceUC{getErr: place.ErrNotFound}
	app := newTestApp(uc, &stubAuthUC{}, &stubArtifacts{}, testGenerator())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/places/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(&stubPlaceUC{}, &stubAuthUC{}, &stubArtifacts{}, testGenerator())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, "Could not find this route", out["message"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(&stubPlaceUC{}, &stubAuthUC{loginErr: auth.ErrInvalidCredentials}, &stubArtifacts{}, testGenerator())

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"email":"ann@example.com","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSignupShortPassword(t *testing.T) {
	arts := &stubArtifacts{}
	app := newTestApp(&stubPlaceUC{}, &stubAuthUC{}, arts, testGenerator())

	body, contentType := placeForm(t, map[string]string{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "abc",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 0, arts.saves)
}
