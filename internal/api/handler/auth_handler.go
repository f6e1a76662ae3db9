package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/api/middleware"
	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

const oauthStateCookie = "oauth_state"

// CookieConfig controls the session cookie carrying the access token.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandlerConfig wires the optional Google login. With a nil Google the
// /auth/google routes answer 404.
type AuthHandlerConfig struct {
	Cookie              CookieConfig
	Google              ports.IdentityProvider
	FrontendOrigin      string
	FrontendCallbackURL string
}

type AuthHandler struct {
	authService ports.AuthService
	cfg         AuthHandlerConfig
}

func NewAuthHandler(authService ports.AuthService, cfg AuthHandlerConfig) *AuthHandler {
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "token"
	}
	return &AuthHandler{authService: authService, cfg: cfg}
}

// GoogleEnabled reports whether the federated routes should be mounted.
func (h *AuthHandler) GoogleEnabled() bool { return h.cfg.Google != nil }

// Register provisions a user with a personal workspace and signs them in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setSession(c, res.Token)
	return c.JSON(http.StatusCreated, newAuthResponse("User created successfully", res))
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSession(c, res.Token)
	return c.JSON(http.StatusOK, newAuthResponse("Logged in successfully", res))
}

// Logout revokes the presented token and clears the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	if err := h.authService.Logout(c.Request().Context(), *claims); err != nil {
		return err
	}
	h.clearCookie(c, h.cfg.Cookie.Name)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// GoogleLogin redirects to the Google consent screen.
//
// @Summary      Begin Google sign-in
// @Tags         auth
// @Success      307
// @Failure      404  {object}  errorResponse
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	if h.cfg.Google == nil {
		return echo.ErrNotFound
	}
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusTemporaryRedirect, h.cfg.Google.AuthCodeURL(state))
}

// GoogleCallback finishes the OAuth exchange. With a frontend callback
// configured the browser is redirected; otherwise the result is JSON.
//
// @Summary      Finish Google sign-in
// @Tags         auth
// @Produce      json
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "State issued by /auth/google"
// @Success      200    {object}  authResponse
// @Success      302
// @Failure      401    {object}  errorResponse
// @Router       /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if h.cfg.Google == nil {
		return echo.ErrNotFound
	}
	res, err := h.completeGoogle(c)
	h.clearCookie(c, oauthStateCookie)
	if err != nil {
		if h.cfg.FrontendCallbackURL == "" {
			return err
		}
		zerolog.Ctx(c.Request().Context()).Warn().Err(err).Msg("google sign-in failed")
		return c.Redirect(http.StatusFound, h.cfg.FrontendCallbackURL+"?status=failure")
	}

	h.setSession(c, res.Token)
	if h.cfg.FrontendOrigin == "" {
		return c.JSON(http.StatusOK, newAuthResponse("Logged in successfully", res))
	}
	return c.Redirect(http.StatusFound, h.cfg.FrontendOrigin+"/workspace/"+url.PathEscape(res.WorkspaceID))
}

func (h *AuthHandler) completeGoogle(c echo.Context) (*ports.AuthResult, error) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state.Value == "" || state.Value != c.QueryParam("state") {
		return nil, domain.ErrUnauthenticated
	}
	ctx := c.Request().Context()
	identity, err := h.cfg.Google.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		return nil, err
	}
	return h.authService.LoginWithIdentity(ctx, *identity)
}

func (h *AuthHandler) setSession(c echo.Context, tok ports.IssuedToken) {
	maxAge := int(h.cfg.Cookie.TTL.Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Until(tok.ExpiresAt).Seconds())
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    tok.Token,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  tok.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure,
	})
}

func newAuthResponse(msg string, res *ports.AuthResult) authResponse {
	return authResponse{
		Message:          msg,
		User:             res.User,
		CurrentWorkspace: res.WorkspaceID,
		Token:            res.Token.Token,
		ExpiresAt:        res.Token.ExpiresAt,
	}
}
