package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/oauth"
	"github.com/labstack/echo/v4"
	"github.com/nrednav/cuid2"
)

// Provider is the federated identity provider boundary. The exchanged
// profile is trusted as pre-verified.
type Provider interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

func RegisterPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "register.html", map[string]any{})
	}
}

func Register(authService AuthService, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := c.FormValue("email")
		password := c.FormValue("password")

		_, delivered, err := authService.Register(c.Request().Context(), email, password)
		if err != nil {
			if errors.Is(err, model.ErrorAlreadyVerified) {
				if wantsJSON(c) {
					return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
				}
				return c.Redirect(http.StatusFound, "/login")
			}
			return err
		}

		pending, err := tokens.IssuePending(email, authService.OTPExpiry())
		if err != nil {
			return err
		}
		setCookie(c, pendingCookie, pending, authService.OTPExpiry())

		if wantsJSON(c) {
			return c.JSON(http.StatusOK, map[string]any{"delivered": delivered})
		}
		return c.Redirect(http.StatusFound, "/verify-otp")
	}
}

func VerifyOTPPage(tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := pendingEmail(c, tokens); err != nil {
			return c.Redirect(http.StatusFound, "/register")
		}
		return c.Render(http.StatusOK, "verify.html", map[string]any{})
	}
}

func VerifyOTP(authService AuthService, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		email, err := pendingEmail(c, tokens)
		if err != nil {
			if wantsJSON(c) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "register first"})
			}
			return c.Redirect(http.StatusFound, "/register")
		}

		identity, err := authService.VerifyCode(c.Request().Context(), email, c.FormValue("code"))
		if err != nil {
			if errors.Is(err, model.ErrorInvalidOrExpiredCode) {
				if wantsJSON(c) {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
				}
				return c.Render(http.StatusOK, "verify.html", map[string]any{"Error": "Invalid or expired OTP code."})
			}
			if errors.Is(err, model.ErrorNotFound) {
				clearCookie(c, pendingCookie)
				return c.Redirect(http.StatusFound, "/register")
			}
			return err
		}

		if err := startSession(c, tokens, identity); err != nil {
			return err
		}
		clearCookie(c, pendingCookie)

		if wantsJSON(c) {
			return c.JSON(http.StatusOK, map[string]any{"verified": true})
		}
		return c.Redirect(http.StatusFound, "/")
	}
}

func LoginPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "login.html", map[string]any{})
	}
}

func Login(authService AuthService, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := authService.Login(c.Request().Context(), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			switch {
			case errors.Is(err, model.ErrorNotVerified):
				if wantsJSON(c) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
				}
				return c.Redirect(http.StatusFound, "/register")
			case errors.Is(err, model.ErrorInvalidEmailOrPassword):
				if wantsJSON(c) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
				}
				return c.Render(http.StatusOK, "login.html", map[string]any{"Error": "Invalid email or password."})
			default:
				return err
			}
		}

		if err := startSession(c, tokens, identity); err != nil {
			return err
		}

		if wantsJSON(c) {
			return c.JSON(http.StatusOK, map[string]any{"id": identity.ID})
		}
		return c.Redirect(http.StatusFound, "/")
	}
}

func Logout() echo.HandlerFunc {
	return func(c echo.Context) error {
		clearCookie(c, sessionCookie)
		return c.Redirect(http.StatusFound, "/login")
	}
}

func GoogleLogin(provider Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !provider.Configured() {
			return c.Redirect(http.StatusFound, "/login")
		}
		state := cuid2.Generate()
		setCookie(c, stateCookie, state, 10*time.Minute)
		return c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
	}
}

func GoogleCallback(provider Provider, authService AuthService, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(stateCookie)
		if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
			return c.Redirect(http.StatusFound, "/login")
		}
		clearCookie(c, stateCookie)

		profile, err := provider.Exchange(c.Request().Context(), c.QueryParam("code"))
		if err != nil {
			c.Logger().Errorf("google exchange: %+v", err)
			return c.Redirect(http.StatusFound, "/login")
		}

		identity, err := authService.FederatedLogin(c.Request().Context(), profile.Subject, profile.Email, profile.DisplayName)
		if err != nil {
			return err
		}

		if err := startSession(c, tokens, identity); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/")
	}
}

func pendingEmail(c echo.Context, tokens TokenIssuer) (string, error) {
	cookie, err := c.Cookie(pendingCookie)
	if err != nil || cookie.Value == "" {
		return "", model.ErrorNotFound
	}
	return tokens.ParsePending(cookie.Value)
}

func startSession(c echo.Context, tokens TokenIssuer, identity *model.Identity) error {
	session, err := tokens.IssueSession(identity.ID, sessionTTL)
	if err != nil {
		return err
	}
	setCookie(c, sessionCookie, session, sessionTTL)
	return nil
}

func setCookie(c echo.Context, name string, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
