package api

import (
	"net/http"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// wantsJSON reports whether the client asked for the JSON view model instead of HTML.
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func (h *Handler) render(c *gin.Context, status int, name string, page interface{}) {
	if wantsJSON(c) {
		c.JSON(status, page)
		return
	}
	c.HTML(status, name, page)
}

// renderError maps err to a status. Unavailable data shows the loading
// page titled loadingTitle; everything else gets the error page.
func (h *Handler) renderError(c *gin.Context, err error, loadingTitle string) {
	if _, ok := apperr.As(err); !ok {
		err = apperr.Wrap(err)
	}
	status := apperr.HTTPStatus(err)
	rid := requestID(c)
	_ = c.Error(err)

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", rid),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	if apperr.Is(err, apperr.Unavailable) {
		if wantsJSON(c) {
			c.JSON(status, gin.H{"loading": true, "request_id": rid})
			return
		}
		c.HTML(status, view.LoadingTemplate, view.LoadingPage{Title: loadingTitle})
		return
	}

	msg := apperr.PublicMessage(err)
	if wantsJSON(c) {
		ae, _ := apperr.As(err)
		c.JSON(status, gin.H{
			"error":      msg,
			"details":    string(ae.Kind),
			"request_id": rid,
		})
		return
	}
	c.HTML(status, view.ErrorTemplate, view.ErrorPage{Status: status, Message: msg, RequestID: rid})
}
