package models

// TokenPair is the pair of signed tokens the backend issues on login and
// refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
