package errors

import "net/http"

// MsgUpstreamUnreachable marks transport failures talking to the reservation
// service.
const MsgUpstreamUnreachable = "reservation service unreachable"

// Classification is how an error is reported to an HTTP caller.
type Classification struct {
	Status  int
	Code    string
	Message string
	Details []ValidationDetail
}

// Classify maps the error taxonomy onto HTTP. Rejections from the reservation
// service keep their message: 401/419 stay unauthorized, 403/404/409 keep
// their meaning, anything else the service refused is 422 and a 5xx from it
// is 502.
func Classify(err error) Classification {
	if ve, ok := IsValidationError(err); ok {
		return Classification{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: ve.Message, Details: ve.Details}
	}
	if ue, ok := IsUnauthorizedError(err); ok {
		return Classification{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: ue.Message}
	}
	if fe, ok := IsForbiddenError(err); ok {
		return Classification{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: fe.Message}
	}
	if nfe, ok := IsNotFoundError(err); ok {
		return Classification{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: nfe.Message}
	}
	if ce, ok := IsConflictError(err); ok {
		return Classification{Status: http.StatusConflict, Code: "CONFLICT", Message: ce.Message}
	}
	if se, ok := IsServerError(err); ok {
		return classifyServerError(se)
	}
	if ie, ok := IsInternalError(err); ok && ie.Message == MsgUpstreamUnreachable {
		return Classification{Status: http.StatusBadGateway, Code: "UPSTREAM_UNAVAILABLE", Message: ie.Message}
	}
	return Classification{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "an unexpected error occurred"}
}

func classifyServerError(se *ServerError) Classification {
	c := Classification{Message: se.Message()}
	for _, f := range se.Fields {
		for _, m := range f.Messages {
			c.Details = append(c.Details, ValidationDetail{Field: f.Field, Message: m})
		}
	}

	switch {
	case se.Unauthenticated():
		c.Status, c.Code = http.StatusUnauthorized, "UNAUTHORIZED"
	case se.Status == http.StatusForbidden:
		c.Status, c.Code = http.StatusForbidden, "FORBIDDEN"
	case se.Status == http.StatusNotFound:
		c.Status, c.Code = http.StatusNotFound, "NOT_FOUND"
	case se.Status == http.StatusConflict:
		c.Status, c.Code = http.StatusConflict, "CONFLICT"
	case se.Status >= http.StatusInternalServerError:
		c.Status, c.Code = http.StatusBadGateway, "UPSTREAM_ERROR"
	default:
		c.Status, c.Code = http.StatusUnprocessableEntity, "REJECTED"
	}
	return c
}
