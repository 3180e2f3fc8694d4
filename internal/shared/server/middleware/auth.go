package middleware

import "github.com/gin-gonic/gin"

const (
	userIDKey     = "userId"
	userEmailKey  = "userEmail"
	orgIDKey      = "orgId"
	documentIDKey = "documentId"
)

// SetUser records the authenticated caller on the request context.
func SetUser(c *gin.Context, id, email string) {
	c.Set(userIDKey, id)
	if email != "" {
		c.Set(userEmailKey, email)
	}
}

// SetOrgID records the caller's resolved organization.
func SetOrgID(c *gin.Context, orgID string) {
	c.Set(orgIDKey, orgID)
}

// SetDocumentID records the document a request created.
func SetDocumentID(c *gin.Context, documentID string) {
	c.Set(documentIDKey, documentID)
}

// UserIDFromContext fetches the user ID set by SetUser.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by SetUser.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// OrgIDFromContext fetches the organization set by SetOrgID.
func OrgIDFromContext(c *gin.Context) string {
	return stringFromContext(c, orgIDKey)
}

// DocumentIDFromContext fetches the document set by SetDocumentID.
func DocumentIDFromContext(c *gin.Context) string {
	return stringFromContext(c, documentIDKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
