package domain

// Registration dialog identifiers. The flows behind these run outside this
// service (authority-hosted enrollment); we only hand the client a directive.
const (
	DialogTOTPRegister       = "totp-register"
	DialogSecurityKeysManage = "security-keys-manage"
)

// DialogRef asks the presentation layer to open an external registration
// or management flow.
type DialogRef struct {
	ID     string            `json:"id"`
	Params map[string]string `json:"params,omitempty"`
}
