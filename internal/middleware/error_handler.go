package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apiError "observation-tracker/internal/errors"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			var apiErr *apiError.APIError

			// if it's our custom APIError
			if !errors.As(err, &apiErr) {
				// If it's a raw error we didn't wrap, treat as Internal
				apiErr = apiError.Internal(err)
			}

			if apiErr.Status >= 500 {
				log.Error().Err(apiErr.Internal).Str("kind", apiErr.Kind).Msg(apiErr.Message)
			} else {
				log.Info().Err(apiErr.Internal).Str("kind", apiErr.Kind).Msg(apiErr.Message)
			}

			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}
