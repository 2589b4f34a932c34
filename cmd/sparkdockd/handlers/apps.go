package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apiapps "github.com/sparkdock/sparkdock/pkg/api/apps"
	apierr "github.com/sparkdock/sparkdock/pkg/api/errors"
	"github.com/sparkdock/sparkdock/pkg/spark"
)

// AppLister is the subset of spark.AppManager the listing endpoint needs.
type AppLister interface {
	List(ctx context.Context, namespace string) ([]spark.AppSummary, error)
}

// GetAppsHandler lists the applications in the namespace given as path
// parameter `namespace`, falling back to defaultNamespace when the path
// has none.
func GetAppsHandler(lister AppLister, namespaceParam string, defaultNamespace string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		namespace := c.Param(namespaceParam)
		if namespace == "" {
			namespace = defaultNamespace
		}
		if namespace == "" {
			return apierr.BadRequest("namespace is required in the path", nil)
		}

		summaries, err := lister.List(ctx, namespace)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiapps.ComposeSummaries(summaries))
	}
}
