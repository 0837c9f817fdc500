package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomboard/config"
	"github.com/godocompany/roomboard/models"
	"github.com/godocompany/roomboard/services"
	"github.com/godocompany/roomboard/v1/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testSite wires a site over an in-memory database
type testSite struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(config.OpenSQLite(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.Migrate(db))

	site := &Site{
		AccountsService:   &services.AccountsService{DB: db, BcryptCost: bcrypt.MinCost},
		AuthTokensService: &services.AuthTokensService{DB: db, SigningPepper: "test-pepper"},
		RoomsService:      &services.RoomsService{DB: db},
		MessagesService:   &services.MessagesService{DB: db},
		ProfilesService:   &services.ProfilesService{DB: db},
		SessionTTL:        time.Hour,
	}
	r := gin.New()
	site.Setup(r)
	return &testSite{engine: r, db: db}
}

// browser keeps the session cookie between requests
type browser struct {
	site    *testSite
	session string
}

func (b *browser) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: b.session})
	}
	w := httptest.NewRecorder()
	b.site.engine.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			b.session = cookie.Value
		}
	}
	return w
}

func (b *browser) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return b.do(t, http.MethodGet, path, nil)
}

func (b *browser) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(t, http.MethodPost, path, form)
}

func (b *browser) register(t *testing.T, username string) {
	t.Helper()
	w := b.post(t, "/register/", url.Values{
		"username":  {username},
		"password1": {"password123"},
		"password2": {"password123"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(t, "/", w.Header().Get("Location"))
	require.NotEmpty(t, b.session)
}

func (s *testSite) roomID(t *testing.T, name string) uint64 {
	t.Helper()
	var room models.Room
	require.NoError(t, s.db.Where("name = ? AND deleted_date IS NULL", name).First(&room).Error)
	return room.ID
}

func TestSite_AnonymousRedirects(t *testing.T) {
	site := newTestSite(t)
	anon := &browser{site: site}

	for _, path := range []string{"/create-form/", "/update-form/1", "/delete-form/1", "/delete-message/1"} {
		w := anon.get(t, path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login/", w.Header().Get("Location"), path)
	}

	w := anon.post(t, "/room/1/", url.Values{"body": {"hi"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))

	w = anon.get(t, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0 rooms available")
}

func TestSite_Login(t *testing.T) {
	site := newTestSite(t)
	alice := &browser{site: site}
	alice.register(t, "Alice")

	// Logged in users skip the login page
	w := alice.get(t, "/login/")
	assert.Equal(t, http.StatusFound, w.Code)

	w = alice.get(t, "/logout/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, alice.session)

	w = alice.post(t, "/login/", url.Values{"username": {"nobody"}, "password": {"password123"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User does not exist")

	w = alice.post(t, "/login/", url.Values{"username": {"alice"}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username or password does not exist")

	w = alice.post(t, "/login/", url.Values{"username": {"alice"}, "password": {"password123"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.NotEmpty(t, alice.session)
}

func TestSite_RegisterValidation(t *testing.T) {
	site := newTestSite(t)
	alice := &browser{site: site}
	alice.register(t, "alice")

	other := &browser{site: site}
	w := other.post(t, "/register/", url.Values{
		"username":  {"ALICE"},
		"password1": {"password123"},
		"password2": {"password123"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A user with that username already exists.")
	assert.NotContains(t, w.Body.String(), `value="ALICE"`)
	assert.Empty(t, other.session)
}

func TestSite_Scenario(t *testing.T) {
	site := newTestSite(t)

	// Register alice; the stored username is lowercase
	alice := &browser{site: site}
	alice.register(t, "Alice")
	var stored models.User
	require.NoError(t, site.db.First(&stored).Error)
	assert.Equal(t, "alice", stored.Username)

	// Two rooms under the same topic share one topic row
	w := alice.post(t, "/create-form/", url.Values{"topic": {"Music"}, "name": {"Jam"}, "description": {"weekly jam"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = alice.post(t, "/create-form/", url.Values{"topic": {"Music"}, "name": {"Covers"}})
	require.Equal(t, http.StatusFound, w.Code)
	var topicCount int64
	require.NoError(t, site.db.Model(&models.Topic{}).Where("name = ?", "Music").Count(&topicCount).Error)
	assert.EqualValues(t, 1, topicCount)
	jamID := site.roomID(t, "Jam")

	// Bob cannot edit or delete alice's room
	bob := &browser{site: site}
	bob.register(t, "bob")
	w = bob.get(t, fmt.Sprintf("/delete-form/%d", jamID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not allowed to delete this room", w.Body.String())
	w = bob.post(t, fmt.Sprintf("/delete-form/%d", jamID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = bob.post(t, fmt.Sprintf("/update-form/%d", jamID), url.Values{"topic": {"X"}, "name": {"Mine"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not allowed to edit this room", w.Body.String())
	assert.Equal(t, jamID, site.roomID(t, "Jam"))

	// Posting adds participants
	roomPath := fmt.Sprintf("/room/%d/", jamID)
	w = alice.post(t, roomPath, url.Values{"body": {"alice says hi"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, roomPath, w.Header().Get("Location"))
	w = bob.post(t, roomPath, url.Values{"body": {"bob says hi"}})
	require.Equal(t, http.StatusFound, w.Code)

	room, err := (&services.RoomsService{DB: site.db}).GetRoom(jamID)
	require.NoError(t, err)
	require.Len(t, room.Participants, 2)

	w = bob.get(t, roomPath)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice says hi")
	assert.Contains(t, w.Body.String(), "bob says hi")

	// Bob deletes his own message; alice's stays
	var bobMsg, aliceMsg models.Message
	require.NoError(t, site.db.Where("body = ?", "bob says hi").First(&bobMsg).Error)
	require.NoError(t, site.db.Where("body = ?", "alice says hi").First(&aliceMsg).Error)

	w = bob.get(t, fmt.Sprintf("/delete-message/%d", aliceMsg.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not allowed to delete this message", w.Body.String())

	w = bob.get(t, fmt.Sprintf("/delete-message/%d", bobMsg.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Are you sure")
	w = bob.post(t, fmt.Sprintf("/delete-message/%d", bobMsg.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = bob.get(t, roomPath)
	assert.Contains(t, w.Body.String(), "alice says hi")
	assert.NotContains(t, w.Body.String(), "bob says hi")

	// Search
	w = bob.get(t, "/?q=music")
	assert.Contains(t, w.Body.String(), "2 rooms available")
	w = bob.get(t, "/?q=weekly")
	assert.Contains(t, w.Body.String(), "1 rooms available")

	// Profile
	w = bob.get(t, fmt.Sprintf("/profile/%d/", stored.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jam")
	assert.Contains(t, w.Body.String(), "Covers")

	// Alice edits then deletes her room
	w = alice.get(t, fmt.Sprintf("/update-form/%d", jamID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Jam"`)
	w = alice.post(t, fmt.Sprintf("/update-form/%d", jamID), url.Values{"topic": {"Jazz"}, "name": {"Jam Session"}})
	assert.Equal(t, http.StatusFound, w.Code)
	w = alice.get(t, fmt.Sprintf("/delete-form/%d", jamID))
	assert.Equal(t, http.StatusOK, w.Code)
	w = alice.post(t, fmt.Sprintf("/delete-form/%d", jamID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = alice.get(t, roomPath)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSite_NotFound(t *testing.T) {
	site := newTestSite(t)
	alice := &browser{site: site}
	alice.register(t, "alice")

	for _, path := range []string{"/room/42/", "/room/abc/", "/profile/42/", "/update-form/42", "/delete-form/42", "/delete-message/42"} {
		w := alice.get(t, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w := alice.post(t, "/room/42/", url.Values{"body": {"hello"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSite_FormValidation(t *testing.T) {
	site := newTestSite(t)
	alice := &browser{site: site}
	alice.register(t, "alice")

	w := alice.post(t, "/create-form/", url.Values{"topic": {""}, "name": {""}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Topic is required.")
	assert.Contains(t, w.Body.String(), "Name is required.")

	w = alice.post(t, "/create-form/", url.Values{"topic": {"Go"}, "name": {"Gophers"}})
	require.Equal(t, http.StatusFound, w.Code)
	roomPath := fmt.Sprintf("/room/%d/", site.roomID(t, "Gophers"))

	w = alice.post(t, roomPath, url.Values{"body": {"  "}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Message body is required.")
}
