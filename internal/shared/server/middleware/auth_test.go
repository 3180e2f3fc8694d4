package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentityHelpersRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var userID, email, orgID, docID string
	router.GET("/x", func(c *gin.Context) {
		SetUser(c, "user-1", "a@example.com")
		SetOrgID(c, "org-1")
		SetDocumentID(c, "doc-1")
		userID = UserIDFromContext(c)
		email = UserEmailFromContext(c)
		orgID = OrgIDFromContext(c)
		docID = DocumentIDFromContext(c)
		c.Status(http.StatusNoContent)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	if userID != "user-1" || email != "a@example.com" || orgID != "org-1" || docID != "doc-1" {
		t.Fatalf("unexpected values %q %q %q %q", userID, email, orgID, docID)
	}
}

func TestIdentityHelpersEmpty(t *testing.T) {
	if UserIDFromContext(nil) != "" {
		t.Fatalf("expected empty user id for nil context")
	}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(userIDKey, 42)
	if UserIDFromContext(c) != "" {
		t.Fatalf("expected empty user id for non-string value")
	}
}
