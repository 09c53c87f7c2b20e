package models

// Session is the client-held state: the access token and the remote service
// base URL. It is loaded once at startup and handed to the gateway.
type Session struct {
	Token     string `json:"-"`
	ServerURL string `json:"serverUrl"`
}

func (s Session) HasToken() bool {
	return s.Token != ""
}

type SessionRepository interface {
	Load() (Session, error)
	Save(session Session) error
	ClearToken() error
}
