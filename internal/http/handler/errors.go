package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"supporttriage.app/backend/internal/brain"
	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/service"
	"supporttriage.app/backend/internal/store"
)

const (
	codeNotFound   = "NOT_FOUND"
	codeValidation = "VALIDATION_ERROR"
	codeRequest    = "REQUEST_FAILED"
	codeAIFailed   = "AI_FAILED"
)

// ErrorResponse maps an error to its HTTP status and body. Unknown errors fall
// into the upstream-failure bucket with only the error's type name exposed.
func ErrorResponse(err error) (int, gin.H) {
	var (
		validationErr *ValidationError
		inputErr      *service.InputError
		requestErr    *RequestError
		notFoundErr   *store.NotFoundError
		invocationErr *brain.InvocationError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, gin.H{"error": codeValidation, "fields": validationErr.Fields}
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, gin.H{"error": codeValidation, "fields": map[string]string{inputErr.Field: inputErr.Message}}
	case errors.Is(err, brain.ErrInvalidTone):
		return http.StatusBadRequest, gin.H{"error": codeValidation, "fields": map[string]string{"tone": toneMessage()}}
	case errors.As(err, &requestErr):
		return http.StatusBadRequest, gin.H{"error": codeRequest, "message": requestErr.Message}
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, gin.H{"error": codeNotFound, "message": notFoundErr.Error()}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": codeNotFound, "message": err.Error()}
	case errors.As(err, &invocationErr):
		body := gin.H{"error": codeAIFailed, "message": invocationErr.Error()}
		if invocationErr.RunID != nil {
			body["aiRunId"] = strconv.FormatInt(*invocationErr.RunID, 10)
		}
		return http.StatusBadGateway, body
	}
	return http.StatusBadGateway, gin.H{"error": codeAIFailed, "message": typeName(err)}
}

// respondError logs err and writes the mapped response.
func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status, body := ErrorResponse(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
	} else {
		slog.WarnContext(ctx, "request rejected", "error", err, "status", status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func toneMessage() string {
	tones := []string{
		string(model.ReplyToneEmpathetic),
		string(model.ReplyToneProfessional),
		string(model.ReplyToneConcise),
	}
	return "must be one of " + strings.Join(tones, ", ")
}

// typeName names err's own type. Wrappers from fmt.Errorf and errors.Join
// carry no type of their own, so they are looked through.
func typeName(err error) string {
	for isPlainWrapper(err) {
		next := errors.Unwrap(err)
		if next == nil {
			if multi, ok := err.(interface{ Unwrap() []error }); ok && len(multi.Unwrap()) > 0 {
				next = multi.Unwrap()[0]
			}
		}
		if next == nil {
			break
		}
		err = next
	}
	name := fmt.Sprintf("%T", err)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

func isPlainWrapper(err error) bool {
	switch fmt.Sprintf("%T", err) {
	case "*fmt.wrapError", "*fmt.wrapErrors", "*errors.joinError":
		return true
	}
	return false
}
