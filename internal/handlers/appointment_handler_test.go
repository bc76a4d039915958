package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/talkthroughit/therapy-api/internal/httperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteAppointmentError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing appointment", httperr.ErrBusiness("appointment_not_found"), http.StatusNotFound, "appointment_not_found"},
		{"missing provider", httperr.ErrBusiness("provider_not_found"), http.StatusNotFound, "provider_not_found"},
		{"notice window", httperr.ErrBusinessMsg("cancellation_notice", "too late"), http.StatusBadRequest, "cancellation_notice"},
		{"slot taken", httperr.ErrBusinessMsg("time_conflict", "taken"), http.StatusBadRequest, "time_conflict"},
		{"missing location", httperr.ErrBusinessMsg("location_required", "where"), http.StatusBadRequest, "location_required"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "appointment_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeAppointmentError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}
