package hydra

// OAuth2Client is the subset of the Hydra client object shown on the consent
// screen.
type OAuth2Client struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	LogoURI    string `json:"logo_uri,omitempty"`
	PolicyURI  string `json:"policy_uri,omitempty"`
	TosURI     string `json:"tos_uri,omitempty"`
}

// LoginRequest describes an ongoing login challenge.
type LoginRequest struct {
	Challenge      string        `json:"challenge"`
	Skip           bool          `json:"skip"`
	Subject        string        `json:"subject"`
	RequestedScope []string      `json:"requested_scope"`
	Client         *OAuth2Client `json:"client"`
}

// ConsentRequest describes an ongoing consent challenge.
type ConsentRequest struct {
	Challenge         string        `json:"challenge"`
	Skip              bool          `json:"skip"`
	Subject           string        `json:"subject"`
	RequestedScope    []string      `json:"requested_scope"`
	RequestedAudience []string      `json:"requested_access_token_audience"`
	Client            *OAuth2Client `json:"client"`
}

// AcceptLoginRequest is the payload for accepting a login challenge.
type AcceptLoginRequest struct {
	Subject     string `json:"subject"`
	Remember    bool   `json:"remember"`
	RememberFor int    `json:"remember_for"`
}

// ConsentSession carries the token claims attached to an accepted consent.
type ConsentSession struct {
	// IDToken claims end up in the issued ID token.
	IDToken map[string]interface{} `json:"id_token,omitempty"`
	// AccessToken claims are visible on token introspection.
	AccessToken map[string]interface{} `json:"access_token,omitempty"`
}

// AcceptConsentRequest is the payload for accepting a consent challenge.
type AcceptConsentRequest struct {
	GrantScope               []string        `json:"grant_scope"`
	GrantAccessTokenAudience []string        `json:"grant_access_token_audience"`
	Session                  *ConsentSession `json:"session,omitempty"`
	Remember                 bool            `json:"remember,omitempty"`
	RememberFor              int             `json:"remember_for,omitempty"`
}

// RejectRequest is the payload for rejecting a challenge, using standard
// OAuth2 error codes.
type RejectRequest struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// CompletedRequest is Hydra's answer to every accept/reject call. The browser
// must be redirected to RedirectTo verbatim for the flow to continue.
type CompletedRequest struct {
	RedirectTo string `json:"redirect_to"`
}
