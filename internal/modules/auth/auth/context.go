package auth

import "github.com/gin-gonic/gin"

// ContextKeyIdentity is the gin context key the auth middleware stores the
// verified Identity under.
const ContextKeyIdentity = "auth_identity"

// SetIdentity attaches a verified identity to the request context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ContextKeyIdentity, id)
}

// CurrentIdentity extracts the verified identity from the request context.
// ok is false when the request passed through without a token
// (optional-auth routes).
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
