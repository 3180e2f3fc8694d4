package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"orgdocs-backend/internal/identity"
	"orgdocs-backend/internal/organizations"
	"orgdocs-backend/internal/shared/server/middleware"
	"orgdocs-backend/internal/shared/server/respond"
	"orgdocs-backend/internal/shared/supabase"
	"orgdocs-backend/internal/shared/telemetry"
)

// SignInClient performs the password grant.
type SignInClient interface {
	SignIn(ctx context.Context, email, password string) (identity.Session, error)
}

// OrgResolver resolves the organization of a freshly signed-in user.
type OrgResolver interface {
	Resolve(ctx context.Context, user *identity.User) (organizations.Resolution, bool)
}

// Handler serves password sign-in.
type Handler struct {
	client SignInClient
	orgs   OrgResolver
}

// NewHandler constructs a Handler.
func NewHandler(client SignInClient, orgs OrgResolver) *Handler {
	return &Handler{client: client, orgs: orgs}
}

// RegisterRoutes mounts POST /signin under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signin", h.SignIn)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type signInResponse struct {
	Success bool             `json:"success"`
	User    signInUser       `json:"user"`
	OrgID   *string          `json:"org_id"`
	Session identity.Session `json:"session"`
}

// SignIn handles POST /api/signin.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "email and password required", "")
		return
	}

	session, err := h.client.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var rejected *identity.SignInError
		switch {
		case errors.Is(err, supabase.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "Supabase not configured on server", "")
		case errors.As(err, &rejected):
			relayRejection(c, rejected)
		default:
			respond.Error(c, http.StatusInternalServerError, "Unexpected server error", "")
		}
		return
	}

	user := session.User()
	middleware.SetUser(c, user.ID, user.Email)

	var orgID *string
	if h.orgs != nil && user.ID != "" {
		if res, ok := h.orgs.Resolve(c.Request.Context(), &user); ok {
			orgID = &res.OrgID
			middleware.SetOrgID(c, res.OrgID)
		}
	}

	telemetry.Info("auth.signin.ok", map[string]any{"user_id": user.ID, "org_id": orgID})
	respond.OK(c, signInResponse{
		Success: true,
		User:    signInUser{ID: user.ID, Email: user.Email},
		OrgID:   orgID,
		Session: session,
	})
}

// relayRejection passes the provider's status and JSON body through.
func relayRejection(c *gin.Context, rejected *identity.SignInError) {
	telemetry.Warn("auth.signin.rejected", map[string]any{"status": rejected.Status})
	var body any
	if err := json.Unmarshal(rejected.Body, &body); err == nil {
		c.AbortWithStatusJSON(rejected.Status, body)
		return
	}
	respond.Error(c, rejected.Status, "Sign-in failed", string(rejected.Body))
}
