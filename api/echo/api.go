// Package echo exposes the login and consent HTTP surface of the provider.
package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/ruhmesmeile/hydra-crowdprovider/provider"
)

// CookieConfig describes the session cookie written by the provider.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	// MaxAge in seconds.
	MaxAge int
}

// ProviderAPI holds the resolvers and translator behind the HTTP surface.
type ProviderAPI struct {
	login      *provider.LoginResolver
	consent    *provider.ConsentResolver
	translator *provider.Translator
	cookie     CookieConfig
}

// NewProviderAPI initializes the provider API.
func NewProviderAPI(
	login *provider.LoginResolver,
	consent *provider.ConsentResolver,
	translator *provider.Translator,
	cookie CookieConfig,
) *ProviderAPI {
	return &ProviderAPI{
		login:      login,
		consent:    consent,
		translator: translator,
		cookie:     cookie,
	}
}

// RegisterRoutes registers the provider routes.
func (a *ProviderAPI) RegisterRoutes(e *echo.Echo) {
	e.GET("/login", a.LoginGetHandler)
	e.POST("/login", a.LoginPostHandler)
	e.GET("/consent", a.ConsentGetHandler)
	e.POST("/consent", a.ConsentPostHandler)
	e.GET("/health", a.HealthHandler)
}

// LoginGetHandler resolves a login challenge: skip-accept, accept via an
// existing session, or render the login form.
func (a *ProviderAPI) LoginGetHandler(c echo.Context) error {
	challenge := c.QueryParam("login_challenge")
	if challenge == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "login_challenge is missing")
	}

	ctx := c.Request().Context()
	decision, err := a.login.ResolveGet(ctx, challenge, a.sessionToken(c))
	if err != nil {
		return err
	}

	outcome, err := a.translator.CompleteLogin(ctx, challenge, decision)
	if err != nil {
		return err
	}

	return a.finish(c, outcome, func() error {
		return a.renderLogin(c, challenge, outcome.PromptError)
	})
}

// LoginPostHandler authenticates submitted credentials against the directory.
// Bad credentials re-render the form with a message; the same challenge token
// is reused.
func (a *ProviderAPI) LoginPostHandler(c echo.Context) error {
	challenge := c.FormValue("challenge")
	if challenge == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "challenge is missing")
	}

	ctx := c.Request().Context()
	decision, err := a.login.ResolvePost(ctx, provider.Credentials{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Remember: c.FormValue("remember") != "",
	})
	if err != nil {
		return err
	}

	outcome, err := a.translator.CompleteLogin(ctx, challenge, decision)
	if err != nil {
		return err
	}

	return a.finish(c, outcome, func() error {
		return a.renderLogin(c, challenge, outcome.PromptError)
	})
}

// ConsentGetHandler resolves a consent challenge: accept via an existing
// session, skip-accept, or render the consent form.
func (a *ProviderAPI) ConsentGetHandler(c echo.Context) error {
	challenge := c.QueryParam("consent_challenge")
	if challenge == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "consent_challenge is missing")
	}

	ctx := c.Request().Context()
	decision, details, err := a.consent.ResolveGet(ctx, challenge, a.sessionToken(c))
	if err != nil {
		return err
	}

	outcome, err := a.translator.CompleteConsent(ctx, challenge, decision)
	if err != nil {
		return err
	}

	return a.finish(c, outcome, func() error {
		clientName := ""
		if details.Client != nil {
			clientName = details.Client.ClientID
			if details.Client.ClientName != "" {
				clientName = details.Client.ClientName
			}
		}
		return c.Render(http.StatusOK, "consent.html", map[string]interface{}{
			"CSRFToken":      csrfToken(c),
			"Challenge":      challenge,
			"RequestedScope": details.RequestedScope,
			"User":           details.Subject,
			"Client":         clientName,
		})
	})
}

// ConsentPostHandler applies the user's consent decision. Deny always wins; a
// grant without a valid session closes the request with an error page.
func (a *ProviderAPI) ConsentPostHandler(c echo.Context) error {
	challenge := c.FormValue("challenge")
	if challenge == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "challenge is missing")
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form body")
	}

	ctx := c.Request().Context()
	decision, err := a.consent.ResolvePost(ctx, provider.ConsentSubmission{
		Challenge:  challenge,
		Submit:     c.FormValue("submit"),
		GrantScope: form["grant_scope"],
		Remember:   c.FormValue("remember") != "",
	}, a.sessionToken(c))
	if err != nil {
		if errors.Is(err, provider.ErrConsentWithoutSession) {
			return echo.NewHTTPError(http.StatusForbidden,
				"Your session has expired, please restart the authorization flow")
		}
		return err
	}

	outcome, err := a.translator.CompleteConsent(ctx, challenge, decision)
	if err != nil {
		return err
	}

	// The POST grant path never renders; every decision here ends in a redirect.
	return a.finish(c, outcome, func() error {
		return echo.NewHTTPError(http.StatusInternalServerError, "unexpected render directive")
	})
}

// HealthHandler reports liveness.
func (a *ProviderAPI) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HTTPErrorHandler renders unrecovered failures as a generic error page.
func (a *ProviderAPI) HTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again."

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	log.Error().Err(err).Int("status", code).Str("path", c.Path()).Msg("Request failed")

	if c.Response().Committed {
		return
	}
	if renderErr := c.Render(code, "error.html", map[string]interface{}{
		"Status":  code,
		"Message": message,
	}); renderErr != nil {
		log.Error().Err(renderErr).Msg("Failed to render error page")
	}
}

func (a *ProviderAPI) renderLogin(c echo.Context, challenge, errMsg string) error {
	return c.Render(http.StatusOK, "login.html", map[string]interface{}{
		"CSRFToken": csrfToken(c),
		"Challenge": challenge,
		"Error":     errMsg,
	})
}

// finish applies the translated outcome to the response: cookie mutation
// first, then redirect or render.
func (a *ProviderAPI) finish(c echo.Context, outcome *provider.Outcome, render func() error) error {
	if outcome.SetCookieToken != "" {
		c.SetCookie(&http.Cookie{
			Name:     a.cookie.Name,
			Value:    outcome.SetCookieToken,
			Path:     "/",
			Domain:   a.cookie.Domain,
			MaxAge:   a.cookie.MaxAge,
			Secure:   a.cookie.Secure,
			HttpOnly: true,
		})
	}

	if outcome.RedirectTo != "" {
		// The continuation URL belongs to the authorization server and is
		// never rewritten locally.
		return c.Redirect(http.StatusFound, outcome.RedirectTo)
	}

	return render()
}

// sessionToken extracts the raw session cookie value, if any. Validity is
// decided by the session correlator, never here.
func (a *ProviderAPI) sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(a.cookie.Name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

// csrfToken reads the request-scoped token placed in the context by the CSRF
// middleware.
func csrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
