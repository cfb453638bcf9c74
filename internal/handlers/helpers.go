package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitlifehq/gym-api/internal/httperr"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageParams reads ?page= and ?limit= with sane bounds.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// businessCatalog maps business error codes to an HTTP status and a message
// the client can show as-is.
var businessCatalog = map[string]struct {
	status  int
	message string
}{
	"class_not_found":             {http.StatusNotFound, "Class not found."},
	"already_booked":              {http.StatusConflict, "You already have a booking for this class on that date."},
	"class_full":                  {http.StatusConflict, "This class is fully booked."},
	"booking_not_found":           {http.StatusNotFound, "Booking not found."},
	"not_owner":                   {http.StatusForbidden, "This booking belongs to another member."},
	"already_cancelled":           {http.StatusConflict, "This booking was already cancelled."},
	"invalid_state":               {http.StatusConflict, "This booking can no longer be changed."},
	"invalid_workout":             {http.StatusBadRequest, "Title and a positive duration are required."},
	"invalid_workout_type":        {http.StatusBadRequest, "Unknown workout type."},
	"challenge_not_found":         {http.StatusNotFound, "Challenge not found."},
	"challenge_inactive":          {http.StatusConflict, "This challenge is not open."},
	"already_joined":              {http.StatusConflict, "You already joined this challenge."},
	"challenge_full":              {http.StatusConflict, "This challenge has no open spots."},
	"not_a_participant":           {http.StatusNotFound, "You are not participating in this challenge."},
	"plan_not_found":              {http.StatusNotFound, "Membership plan not found."},
	"plan_inactive":               {http.StatusConflict, "This membership plan is no longer offered."},
	"payment_not_found":           {http.StatusNotFound, "Payment not found."},
	"payment_verification_failed": {http.StatusBadRequest, "Payment could not be verified."},
	"invalid_webhook":             {http.StatusBadRequest, "Webhook verification failed."},
	"payment_not_configured":      {http.StatusServiceUnavailable, "Payments are not configured on this server."},
	"storage_not_configured":      {http.StatusServiceUnavailable, "Media storage is not configured on this server."},
}

// writeBusiness translates a business error into its HTTP answer. Unknown
// errors become a plain 500. Returns false only when err is nil.
func writeBusiness(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		if entry, ok := businessCatalog[be.Code]; ok {
			httperr.Write(c, entry.status, be.Code, entry.message)
			return true
		}
		httperr.BadRequest(c, be.Code, "Request could not be processed.")
		return true
	}
	httperr.Internal(c, "internal_error", "Something went wrong.")
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
