package interfaces

import "context"

// CredentialProvider supplies the optional bearer credential used for gated
// remote content. Returning false means no credential is stored; anonymous
// fetches must still be attempted where the content kind allows them.
type CredentialProvider interface {
	Credential(ctx context.Context) (token string, ok bool)
}

// CredentialFunc adapts a plain function to CredentialProvider.
type CredentialFunc func(ctx context.Context) (string, bool)

// Credential satisfies CredentialProvider.
func (f CredentialFunc) Credential(ctx context.Context) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(ctx)
}
