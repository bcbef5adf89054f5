package httptransport

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type DateRequest struct {
	DateISO string `json:"date_iso"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type SlugRequest struct {
	Slug string `json:"slug"`
}

type SectionsRequest struct {
	Order []string `json:"order"`
}

type TemplateKeyRequest struct {
	TemplateKey string `json:"template_key"`
}
