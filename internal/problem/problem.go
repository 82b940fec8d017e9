// Package problem renders structured error responses. Bodies carry a
// title, a human-readable detail, the status code and the request path,
// never internal error text.
package problem

import "github.com/gin-gonic/gin"

// Details is the failure body returned by every error response.
type Details struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Status   int    `json:"status"`
	Instance string `json:"instance"`
}

// Respond writes a problem body with the given status.
func Respond(c *gin.Context, status int, title, detail string) {
	c.JSON(status, Details{
		Title:    title,
		Detail:   detail,
		Status:   status,
		Instance: c.Request.URL.Path,
	})
}

// Abort writes a problem body and stops the handler chain.
func Abort(c *gin.Context, status int, title, detail string) {
	c.AbortWithStatusJSON(status, Details{
		Title:    title,
		Detail:   detail,
		Status:   status,
		Instance: c.Request.URL.Path,
	})
}
