package handler

import (
	"errors"
	"net/http"

	"shopit/pkg/logger"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor сопоставляет ошибку сервиса с HTTP статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidOrderStatus),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrWrongPassword):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrOrderAlreadyDelivered),
		errors.Is(err, service.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenBlacklisted):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrExternalService):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError пишет ответ об ошибке; детали внутренних ошибок наружу не отдаются
func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(logger.RequestIDKey)).
			Msg("Request failed")
		message = "Internal server error"
	} else if status == http.StatusBadGateway {
		logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("External service failed")
		message = "External service is unavailable"
	}

	abortWithError(c, status, message)
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, entity.ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: message,
	})
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}

// bindJSON разбирает тело и проверяет теги validate
func bindJSON(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := v.Struct(req); err != nil {
		abortWithError(c, http.StatusBadRequest, formatValidationError(err))
		return false
	}
	return true
}
