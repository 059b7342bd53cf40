package httpapi

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecks maps a dependency name to a probe for it.
type HealthChecks map[string]func(ctx context.Context) error

type HealthController struct {
	checks HealthChecks
	logger *zap.Logger
}

func NewHealthController(checks HealthChecks, logger *zap.Logger) *HealthController {
	return &HealthController{checks: checks, logger: logger}
}

func (ctl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	// only check names go out; the errors may carry hosts and credentials
	failed := []string{}
	for name, check := range ctl.checks {
		if err := check(ctx); err != nil {
			ctl.logger.Error("health check failed", zap.String("check", name), zap.Error(err))
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
