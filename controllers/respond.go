package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-order-api/middlewares"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"gorm.io/gorm"
)

var errInternal = errors.New("internal server error")

// statusFor memetakan kategori error domain ke status HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError -> error domain dikirim apa adanya, selain itu 500 generik.
// Detail error internal hanya ikut di luar release mode.
func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code != http.StatusInternalServerError {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, code, errors.New("resource already exists"))
			return
		}
		utils.RespondError(c, code, err)
		return
	}

	fields := logrus.Fields{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}
	if id := c.Param("order_id"); id != "" {
		fields["order_id"] = id
	}
	if actor, ok := middlewares.CurrentActor(c); ok {
		fields["actor"] = actor.UserID
		fields["role"] = actor.Role
	}
	if utils.ErrorLogger != nil {
		utils.ErrorLogger.WithFields(fields).WithError(err).Error("Unhandled error")
	}

	if gin.Mode() == gin.ReleaseMode {
		utils.RespondError(c, code, errInternal)
		return
	}
	utils.RespondJSON(c, code, errInternal.Error()+": "+err.Error(), nil)
}

// mustActor -> 401 bila request tidak melewati AuthMiddleware
func mustActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return services.Actor{}, false
	}
	return actor, true
}

func bindError(c *gin.Context, err error) {
	utils.RespondError(c, http.StatusBadRequest, err)
}
