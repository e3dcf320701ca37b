package handlers

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/KathiraveluLab/BHV/internal/gate"
	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/service/admin"
	"github.com/KathiraveluLab/BHV/internal/service/upload"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookie = "bhv_session"
	pendingCookie = "bhv_pending"
	stateCookie   = "bhv_oauth_state"

	sessionTTL = 7 * 24 * time.Hour
)

type AuthService interface {
	Register(ctx context.Context, email string, password string) (*model.Identity, bool, error)
	VerifyCode(ctx context.Context, email string, code string) (*model.Identity, error)
	Login(ctx context.Context, email string, password string) (*model.Identity, error)
	FederatedLogin(ctx context.Context, subject string, email string, displayName string) (*model.Identity, error)
	Fetch(id model.IdentityID) (*model.Identity, error)
	OTPExpiry() time.Duration
}

type TokenIssuer interface {
	IssuePending(email string, ttl time.Duration) (string, error)
	ParsePending(tokenString string) (string, error)
	IssueSession(identityID model.IdentityID, ttl time.Duration) (string, error)
	ParseSession(tokenString string) (model.IdentityID, error)
}

type UploadService interface {
	Create(params *upload.CreateParams) (*model.Upload, error)
	Fetch(id model.UploadID) (*model.Upload, error)
	Gallery() ([]model.Upload, error)
	OpenBlob(ref string) (io.ReadCloser, error)
}

type ChatService interface {
	Send(actor *model.Identity, targetUserID model.IdentityID, body string) (*model.ChatMessage, error)
	Thread(actor *model.Identity, userID model.IdentityID) ([]model.ChatMessage, error)
}

type AdminService interface {
	Dashboard() (*admin.Dashboard, error)
	Users() ([]admin.UserSummary, error)
	User(id model.IdentityID) (*admin.UserDetail, error)
	Threads() ([]admin.Thread, error)
}

type RolePolicy interface {
	EffectiveRole(identity *model.Identity) model.Role
}

type GateChecker interface {
	Check(actor *model.Identity, requirement gate.Requirement) gate.Decision
}

// wantsJSON selects the dual-mode response shape: API callers get a
// structured error, browser traffic gets a redirect.
func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// Index routes an actor to their home page by effective role.
func Index(policy RolePolicy) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := Actor(c)
		if actor == nil {
			return c.Redirect(302, "/login")
		}
		if policy.EffectiveRole(actor) == model.RoleAdmin {
			return c.Redirect(302, "/admin/dashboard")
		}
		return c.Redirect(302, "/gallery")
	}
}
