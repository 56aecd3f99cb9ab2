package foodsserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	foodsapp "github.com/nexyn/foods-api/internal/domains/foods/application"
	foodports "github.com/nexyn/foods-api/internal/domains/foods/ports"
	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	identityports "github.com/nexyn/foods-api/internal/domains/identity/ports"
	ordersapp "github.com/nexyn/foods-api/internal/domains/orders/application"
	orderports "github.com/nexyn/foods-api/internal/domains/orders/ports"
	apierrors "github.com/nexyn/foods-api/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError maps a status and error to an RFC 7807 response.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondServiceError translates bounded-context sentinels into problem
// responses. Authentication failures and ownership denials stay distinct
// types, and exhausted stock answers as a conflict rather than a bad request.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identityports.ErrInvalidCredential):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("credential is invalid or expired"))
	case errors.Is(err, identity.ErrNotOwner):
		respondProblem(c, apierrors.ErrForbidden.WithDetail("principal does not own this resource"))
	case errors.Is(err, foodports.ErrNotFound):
		respondProblem(c, apierrors.NewNotFoundProblem("food", c.Param("id")))
	case errors.Is(err, orderports.ErrListingNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, orderports.ErrNotFound):
		respondProblem(c, apierrors.NewNotFoundProblem("order", c.Param("id")))
	case errors.Is(err, orderports.ErrInsufficientStock):
		respondProblem(c, apierrors.ErrCapacityExceeded.WithDetail(err.Error()))
	case errors.Is(err, foodsapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrOwnPurchase),
		errors.Is(err, identity.ErrEmptyPrincipal),
		errors.Is(err, identity.ErrInvalidPrincipal):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}
