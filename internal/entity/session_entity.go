package entity

// Session is the authenticated user as reported by the identity provider.
type Session struct {
	UserId      string
	Email       string
	AccessToken string
}
