package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Origins is a parsed list of allowed browser origins
type Origins struct {
	allowAll bool
	allowed  map[string]bool
}

// ParseOrigins reads a comma separated origin list; "*" allows any origin
func ParseOrigins(list string) Origins {
	o := Origins{allowed: make(map[string]bool)}
	for _, origin := range strings.Split(list, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			o.allowAll = true
		} else if origin != "" {
			o.allowed[origin] = true
		}
	}
	return o
}

// Allows reports whether a non-empty origin is on the list
func (o Origins) Allows(origin string) bool {
	return origin != "" && (o.allowAll || o.allowed[origin])
}

// CORS allows the comma separated origins; "*" allows any origin
func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := ParseOrigins(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origins.Allows(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID, X-Form-Instance")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			c.Writer.Header().Set("Access-Control-Max-Age", "43200")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
