package errors

import "net/http"

// 400
var (
	ErrInvalidStopID = New(
		"INVALID_STOP_ID",
		"Input stop_id is not valid.",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Your request is not valid.",
		http.StatusBadRequest,
	)

	ErrInvalidInclude = New(
		"INVALID_INCLUDE",
		"Your request is not valid, _links or stop_id is required.",
		http.StatusBadRequest,
	)

	ErrForbiddenField = New(
		"FORBIDDEN_FIELD",
		"_links or stop_id is not allowed in the request.",
		http.StatusBadRequest,
	)

	ErrNoUpdatableField = New(
		"NO_UPDATABLE_FIELD",
		"You did not input anything valid to update.",
		http.StatusBadRequest,
	)

	ErrInvalidField = New(
		"INVALID_FIELD",
		"Your update contains an invalid field.",
		http.StatusBadRequest,
	)

	ErrInvalidTimestamp = New(
		"INVALID_TIMESTAMP",
		"Your update last_updated is invalid.",
		http.StatusBadRequest,
	)

	ErrTransportBadRequest = New(
		"TRANSPORT_BAD_REQUEST",
		"Your request is not valid.",
		http.StatusBadRequest,
	)

	ErrNotEnoughStops = New(
		"NOT_ENOUGH_STOPS",
		"You have not put enough stops for a guide.",
		http.StatusBadRequest,
	)

	ErrGuideNotAvailable = New(
		"GUIDE_NOT_AVAILABLE",
		"Oops, we cannot provide a guide for your stops.",
		http.StatusBadRequest,
	)
)

// 404
var (
	ErrStopNotFound = New(
		"STOP_NOT_FOUND",
		"This stop is not in the database.",
		http.StatusNotFound,
	)

	ErrTransportNotFound = New(
		"TRANSPORT_NOT_FOUND",
		"This stop could not be found, try a different keyword or stop id.",
		http.StatusNotFound,
	)

	ErrNoDeparture = New(
		"NO_DEPARTURE",
		"This stop has no valid next departure now.",
		http.StatusNotFound,
	)

	ErrNoOperator = New(
		"NO_OPERATOR",
		"This stop has no valid departure operator now.",
		http.StatusNotFound,
	)
)

// 503
var (
	ErrTransportUnavailable = New(
		"TRANSPORT_UNAVAILABLE",
		"Transport Service is not available now.",
		http.StatusServiceUnavailable,
	)

	ErrAIUnavailable = New(
		"AI_UNAVAILABLE",
		"AI Service is not available now.",
		http.StatusServiceUnavailable,
	)

	ErrDatabaseUnavailable = New(
		"DATABASE_UNAVAILABLE",
		"Database is not available now.",
		http.StatusServiceUnavailable,
	)
)

var ErrInternalServer = New(
	"INTERNAL_SERVER_ERROR",
	"Internal server error",
	http.StatusInternalServerError,
)

var ErrTooManyRequests = New(
	"TOO_MANY_REQUESTS",
	"Too many requests, try again later.",
	http.StatusTooManyRequests,
)
