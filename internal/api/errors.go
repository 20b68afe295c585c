package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plateful/backend/internal/domain"
)

// statusForKind maps the domain error taxonomy onto HTTP statuses. A missing
// target entity is a 404; a toggle-state conflict (already added, not yet
// added) is a request error, so 400.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// respondError surfaces domain errors as structured 4xx payloads carrying
// the kind, and everything else as an opaque 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(statusForKind(de.Kind), gin.H{"error": de.Message, "kind": de.Kind})
		return
	}
	if logger != nil {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
