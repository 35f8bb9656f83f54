//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatsense/internal/domain/user"
	"seatsense/internal/handler/api"
	"seatsense/internal/usecase/commands"
	"seatsense/internal/usecase/queries"
	"seatsense/tests/common/builder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// stubBookingCommands returns canned results per method.
type stubBookingCommands struct {
	createID   uuid.UUID
	createErr  error
	checkInID  uuid.UUID
	checkInErr error
	cancelErr  error
}

func (s *stubBookingCommands) Create(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time) (uuid.UUID, error) {
	return s.createID, s.createErr
}

func (s *stubBookingCommands) CheckIn(context.Context, uuid.UUID, uuid.UUID) (uuid.UUID, error) {
	return s.checkInID, s.checkInErr
}

func (s *stubBookingCommands) Cancel(context.Context, uuid.UUID, uuid.UUID) error {
	return s.cancelErr
}

type stubBookingQueries struct {
	view  *queries.BookingView
	views []queries.BookingView
	err   error
}

func (s *stubBookingQueries) GetByID(context.Context, uuid.UUID, uuid.UUID, bool) (*queries.BookingView, error) {
	return s.view, s.err
}

func (s *stubBookingQueries) ListByUser(context.Context, uuid.UUID) ([]queries.BookingView, error) {
	return s.views, s.err
}

func (s *stubBookingQueries) ListBySeat(context.Context, uuid.UUID, time.Time, time.Time) ([]queries.BookingView, error) {
	return s.views, s.err
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubBookingCommands
	queries  *stubBookingQueries
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &stubBookingCommands{}
	s.queries = &stubBookingQueries{}
	handler := api.NewBookingHandler(s.commands, s.queries)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleUser)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, handler.Create)
	s.router.POST("/bookings/checkin", authMiddleware, handler.CheckIn)
	s.router.GET("/bookings/:id", authMiddleware, handler.GetByID)
	s.router.DELETE("/bookings/:id", authMiddleware, handler.Cancel)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) doJSON(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *BookingHandlerTestSuite) TestCreate() {
	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()

	s.Run("created", func() {
		s.commands.createID = uuid.New()
		s.commands.createErr = nil

		rec := s.doJSON(http.MethodPost, "/bookings", reqBody)

		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), s.commands.createID.String())
	})

	s.Run("missing token", func() {
		req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString("{}"))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("overlap maps to conflict", func() {
		s.commands.createErr = commands.ErrSeatConflict

		rec := s.doJSON(http.MethodPost, "/bookings", reqBody)

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown seat maps to not found", func() {
		s.commands.createErr = commands.ErrSeatNotFound

		rec := s.doJSON(http.MethodPost, "/bookings", reqBody)

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("inactive seat maps to unprocessable", func() {
		s.commands.createErr = commands.ErrSeatUnavailable

		rec := s.doJSON(http.MethodPost, "/bookings", reqBody)

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("malformed body", func() {
		rec := s.doJSON(http.MethodPost, "/bookings", map[string]any{"seat_id": "not-a-uuid"})

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCheckIn() {
	s.Run("confirmed", func() {
		s.commands.checkInID = uuid.New()
		s.commands.checkInErr = nil

		rec := s.doJSON(http.MethodPost, "/bookings/checkin",
			map[string]any{"seat_identifier": uuid.New().String()})

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "confirmed")
	})

	s.Run("no pending booking maps to conflict", func() {
		s.commands.checkInErr = commands.ErrNoPendingBooking

		rec := s.doJSON(http.MethodPost, "/bookings/checkin",
			map[string]any{"seat_identifier": uuid.New().String()})

		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGetByID() {
	s.Run("found", func() {
		s.queries.view = &queries.BookingView{ID: uuid.New(), Status: "confirmed"}
		s.queries.err = nil

		rec := s.doJSON(http.MethodGet, "/bookings/"+s.queries.view.ID.String(), nil)

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), s.queries.view.ID.String())
	})

	s.Run("foreign booking maps to forbidden", func() {
		s.queries.err = queries.ErrForbidden

		rec := s.doJSON(http.MethodGet, "/bookings/"+uuid.New().String(), nil)

		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("invalid id", func() {
		rec := s.doJSON(http.MethodGet, "/bookings/not-a-uuid", nil)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	s.Run("cancelled", func() {
		s.commands.cancelErr = nil

		rec := s.doJSON(http.MethodDelete, "/bookings/"+uuid.New().String(), nil)

		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("closed booking maps to conflict", func() {
		s.commands.cancelErr = commands.ErrBookingAlreadyClosed

		rec := s.doJSON(http.MethodDelete, "/bookings/"+uuid.New().String(), nil)

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("non-owner maps to forbidden", func() {
		s.commands.cancelErr = commands.ErrNotBookingOwner

		rec := s.doJSON(http.MethodDelete, "/bookings/"+uuid.New().String(), nil)

		s.Equal(http.StatusForbidden, rec.Code)
	})
}
