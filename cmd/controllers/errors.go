package controllers

import (
	"net/http"

	"jobboard-service/cmd/responses"
	"jobboard-service/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// StatusFor maps an error category to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindInvalidCredentials, apperrors.KindValidation, apperrors.KindAlreadyApplied:
		return http.StatusBadRequest
	case apperrors.KindAlreadyExists:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err in the response envelope. Internal causes are
// logged and never shown to the caller.
func respondError(c *gin.Context, err error) {
	e := apperrors.From(err)
	status := StatusFor(e.Kind)

	data := map[string]interface{}{"error": e.Code()}
	for k, v := range e.Details {
		data[k] = v
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("path", c.FullPath()).Msg(e.Message)
	} else {
		log.Info().Str("request_id", c.GetString(requestIDKey)).Str("code", e.Code()).Msg(e.Message)
	}
	c.AbortWithStatusJSON(status, responses.Response{Status: status, Message: e.Message, Data: data})
}

func respond(c *gin.Context, status int, message string, data map[string]interface{}) {
	c.JSON(status, responses.Response{Status: status, Message: message, Data: data})
}

// bindJSON decodes the body into req, answering 400 itself when it cannot.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Error().Err(err).Msg("error wrong json format")
		respondError(c, apperrors.Validation("Invalid request body"))
		return false
	}
	return true
}
