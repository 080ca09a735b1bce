package templates

//go:generate templ generate

// VerificationParams fills the email confirmation message.
type VerificationParams struct {
	AppName     string
	DisplayName string
	ConfirmURL  string
	Token       string
}
