package dto

type UserSignUpRequest struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserSignUpResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserSignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserSignInResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserSignOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
