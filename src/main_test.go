package main

import (
	"encoding/json"
	"fmt"
	"hms/src/core"
	"hms/src/db"
	"hms/src/realtime"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-faker/faker/v4"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB        *gorm.DB
	Mock      sqlmock.Sqlmock
	RedisMock redismock.ClientMock
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	mockdb, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockdb}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

// testAuthMiddleware stands in for the JWT middleware: identity comes from
// request headers instead of a signed token.
func testAuthMiddleware(ctx *gin.Context) {
	role := ctx.Request.Header.Get("x-role")
	if role == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(ctx.Request.Header.Get("x-id"))
	ctx.Set("id", uint(id))
	ctx.Set("name", ctx.Request.Header.Get("x-name"))
	ctx.Set("role", role)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group(apiPrefix)
	api.Use(testAuthMiddleware)
	bookingHandlers(api)
	roomHandlers(api)
	housekeepingHandlers(api)
	dashboardHandlers(api)
	return router
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", bookableDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock

	rdb, rmock := redismock.NewClientMock()
	s.RedisMock = rmock

	broadcaster = realtime.NewBroadcaster(nil)
	engine = core.NewEngine(d, broadcaster)
	checker = core.NewChecker(d)
	dedup = realtime.NewDeduplicator(rdb, 30*time.Second)
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *TestSuite) request(router *gin.Engine, method, url, role string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.Nil(s.T(), err)
		reader = strings.NewReader(string(raw))
	}
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, url, reader)
	assert.Nil(s.T(), err)
	if role != "" {
		req.Header.Set("x-role", role)
		req.Header.Set("x-id", "1")
		req.Header.Set("x-name", "Test Staff")
	}
	router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) TestHealthRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

// Middleware is installed before route registration, so matched routes
// carry the CORS headers.
func (s *TestSuite) TestCORSHeadersOnMatchedRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *TestSuite) TestRejectsMissingToken() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/rooms", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestBookingValidation() {
	router := newTestRouter()
	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	s.Run("Should reject an empty body with 400", func() {
		w := s.request(router, "POST", "/api/v1/bookings", "user", map[string]any{})
		assert.Equal(s.T(), 400, w.Code)
		raw, _ := io.ReadAll(w.Body)
		assert.NotEmpty(s.T(), gjson.GetBytes(raw, "error").String())
	})

	s.Run("Should reject a past check-in date", func() {
		w := s.request(router, "POST", "/api/v1/bookings", "user", map[string]any{
			"room":           1,
			"check_in_date":  "2020-01-01",
			"check_out_date": future,
		})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a zero-night stay", func() {
		w := s.request(router, "POST", "/api/v1/bookings", "user", map[string]any{
			"room":           1,
			"check_in_date":  future,
			"check_out_date": future,
		})
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestGuestBookingValidation() {
	router := newTestRouter()
	checkIn := time.Now().AddDate(0, 1, 0)
	body := map[string]any{
		"room":           1,
		"check_in_date":  checkIn.Format("2006-01-02"),
		"check_out_date": checkIn.AddDate(0, 0, 2).Format("2006-01-02"),
		"guest": map[string]any{
			"name":  faker.Name(),
			"email": faker.Email(),
			// phone missing
		},
	}

	s.Run("Should require staff role", func() {
		w := s.request(router, "POST", "/api/v1/bookings/guest", "user", body)
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Should reject incomplete guest info", func() {
		w := s.request(router, "POST", "/api/v1/bookings/guest", "staff", body)
		assert.Equal(s.T(), 400, w.Code)
		raw, _ := io.ReadAll(w.Body)
		assert.Contains(s.T(), gjson.GetBytes(raw, "error").String(), "Phone")
	})
}

func (s *TestSuite) TestCheckInGuard() {
	router := newTestRouter()

	rows := sqlmock.NewRows([]string{"id", "room_id", "status", "check_in_date", "check_out_date"}).
		AddRow(5, 3, "pending", time.Now(), time.Now().AddDate(0, 0, 2))
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id =`).WillReturnRows(rows)
	s.Mock.ExpectRollback()

	w := s.request(router, "PUT", "/api/v1/bookings/5/checkin", "staff", nil)
	assert.Equal(s.T(), 422, w.Code)

	raw, _ := io.ReadAll(w.Body)
	assert.Equal(s.T(), "confirmed", gjson.GetBytes(raw, "required_status.0").String())
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestRoomStatusValidation() {
	router := newTestRouter()

	w := s.request(router, "PUT", "/api/v1/rooms/1/status", "staff", map[string]any{
		"status": "occupied",
	})
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestAvailability() {
	router := newTestRouter()

	rows := sqlmock.NewRows([]string{"id", "room_id", "status", "check_in_date", "check_out_date"})
	s.Mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE room_id =`).WillReturnRows(rows)

	w := s.request(router, "GET", "/api/v1/rooms/1/availability?from=2026-09-10&to=2026-09-12", "user", nil)
	assert.Equal(s.T(), 200, w.Code)

	raw, _ := io.ReadAll(w.Body)
	assert.True(s.T(), gjson.GetBytes(raw, "available").Bool())
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestCreateNotification() {
	router := newTestRouter()

	s.Run("Should require staff role", func() {
		w := s.request(router, "POST", "/api/v1/notifications", "user", map[string]any{})
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Should reject an empty body with 400", func() {
		w := s.request(router, "POST", "/api/v1/notifications", "admin", map[string]any{})
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should persist and return the notification", func() {
		s.Mock.ExpectBegin()
		s.Mock.ExpectQuery(`INSERT INTO "notifications"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("6a9a1c9e-6a51-4f2b-9a57-000000000002"))
		s.Mock.ExpectCommit()

		w := s.request(router, "POST", "/api/v1/notifications", "admin", map[string]any{
			"title":   "Lobby AC maintenance",
			"message": "Contractor on site 14:00-16:00",
		})
		assert.Equal(s.T(), 201, w.Code)

		raw, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "announcement", gjson.GetBytes(raw, "data.type").String())
		assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
	})
}

func (s *TestSuite) TestDashboard() {
	router := newTestRouter()

	bookingCounts := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("pending", 2).
		AddRow("confirmed", 5)
	roomCounts := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("available", 7).
		AddRow("occupied", 3)
	s.Mock.ExpectQuery(`SELECT status, COUNT\(id\) AS count FROM "bookings"`).WillReturnRows(bookingCounts)
	s.Mock.ExpectQuery(`SELECT status, COUNT\(id\) AS count FROM "rooms"`).WillReturnRows(roomCounts)
	s.RedisMock.Regexp().ExpectSetNX(realtime.ActivityKey("dashboard-view", 1), `[0-9]+`, 30*time.Second).SetVal(true)

	w := s.request(router, "GET", "/api/v1/dashboard", "admin", nil)
	assert.Equal(s.T(), 200, w.Code)

	raw, _ := io.ReadAll(w.Body)
	assert.Equal(s.T(), int64(2), gjson.GetBytes(raw, fmt.Sprintf("bookings.%d.count", 0)).Int())
	assert.Len(s.T(), gjson.GetBytes(raw, "rooms").Array(), 2)
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
