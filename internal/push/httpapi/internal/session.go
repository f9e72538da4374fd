package internal

type SessionSetRequest struct {
	InstanceURL  string `json:"instance_url"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	TokenURL     string `json:"token_url,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}
