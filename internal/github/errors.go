package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v55/github"

	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
)

// wrapAPIError translates a go-github error into the internal error taxonomy.
// resource names the remote resource for the error message.
func wrapAPIError(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already translated
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.NewRateLimitedError(
			fmt.Sprintf("GitHub API rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time))
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.NewRateLimitedError("GitHub API secondary rate limit exceeded")
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return apperrors.NewNotFoundError(resource)
		case http.StatusUnauthorized:
			return apperrors.NewUnauthorizedError(
				"GitHub authentication failed, check the access token")
		case http.StatusForbidden:
			if strings.Contains(strings.ToLower(respErr.Message), "rate limit") {
				return apperrors.NewRateLimitedError("GitHub API rate limit exceeded")
			}
			return apperrors.NewForbiddenError(
				fmt.Sprintf("insufficient permissions for %s, the token may lack the required scopes", resource))
		case http.StatusConflict:
			return apperrors.NewConflictError(
				fmt.Sprintf("conflict for %s: %s", resource, respErr.Message))
		case http.StatusUnprocessableEntity:
			return apperrors.NewBadRequestError(validationMessage(respErr, resource))
		}
	}

	return apperrors.NewInternalError(fmt.Sprintf("github request for %s failed", resource), err)
}

func validationMessage(respErr *github.ErrorResponse, resource string) string {
	if len(respErr.Errors) == 0 {
		return fmt.Sprintf("validation failed for %s: %s", resource, respErr.Message)
	}
	var details []string
	for _, e := range respErr.Errors {
		if e.Field != "" {
			details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Message))
		} else {
			details = append(details, e.Message)
		}
	}
	return fmt.Sprintf("validation failed for %s: %s", resource, strings.Join(details, "; "))
}
