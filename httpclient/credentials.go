package httpclient

import "fmt"

// CredentialKind discriminates the credential shapes supported by provider
// endpoints.
type CredentialKind string

const (
	// CredentialNone is the zero credential for anonymous endpoints.
	CredentialNone CredentialKind = "none"
	// CredentialKey authenticates with a single API key or token.
	CredentialKey CredentialKind = "key"
	// CredentialUserAndKey authenticates with a user identifier plus key.
	CredentialUserAndKey CredentialKind = "user_and_key"
	// CredentialCertificate authenticates with a client certificate file.
	CredentialCertificate CredentialKind = "certificate"
	// CredentialKeyAndCertificate combines an API key with a client
	// certificate file.
	CredentialKeyAndCertificate CredentialKind = "key_and_certificate"
)

// Credential is the authentication material attached to a connection at
// construction time. It is a tagged value, not an interface hierarchy: the
// Kind field states which of the remaining fields are meaningful.
//
// Credential values must never appear in logs. The logger package masks
// fields with credential-like names, and Credential deliberately has no
// String method that would expose secrets through %v.
type Credential struct {
	Kind CredentialKind

	// Key is the API key, token or secret. Set for CredentialKey,
	// CredentialUserAndKey and CredentialKeyAndCertificate.
	Key string
	// UserID is the account identifier paired with Key.
	UserID string
	// CertFile is the path to a PEM client certificate (with key) presented
	// during the TLS handshake.
	CertFile string
	// KeyFile optionally holds the private key when it is not bundled into
	// CertFile.
	KeyFile string
	// CACertFile optionally pins the server CA used to verify the endpoint.
	// Valid alongside any Kind, including CredentialNone.
	CACertFile string
}

// NoCredential returns the anonymous credential.
func NoCredential() Credential {
	return Credential{Kind: CredentialNone}
}

// KeyCredential returns a single-key credential.
func KeyCredential(key string) Credential {
	return Credential{Kind: CredentialKey, Key: key}
}

// UserAndKeyCredential returns a user plus key credential.
func UserAndKeyCredential(userID, key string) Credential {
	return Credential{Kind: CredentialUserAndKey, UserID: userID, Key: key}
}

// CertificateCredential returns a client-certificate credential.
func CertificateCredential(certFile string) Credential {
	return Credential{Kind: CredentialCertificate, CertFile: certFile}
}

// KeyAndCertificateCredential returns a key plus client-certificate
// credential.
func KeyAndCertificateCredential(key, certFile string) Credential {
	return Credential{Kind: CredentialKeyAndCertificate, Key: key, CertFile: certFile}
}

// Validate checks that the fields required by the credential kind are set.
func (c Credential) Validate() error {
	switch c.Kind {
	case CredentialNone, "":
		return nil
	case CredentialKey:
		if c.Key == "" {
			return NewValidationError("key credential requires a key", "key")
		}
	case CredentialUserAndKey:
		if c.UserID == "" {
			return NewValidationError("user+key credential requires a user id", "user_id")
		}
		if c.Key == "" {
			return NewValidationError("user+key credential requires a key", "key")
		}
	case CredentialCertificate:
		if c.CertFile == "" {
			return NewValidationError("certificate credential requires a certificate file", "cert_file")
		}
	case CredentialKeyAndCertificate:
		if c.Key == "" {
			return NewValidationError("key+certificate credential requires a key", "key")
		}
		if c.CertFile == "" {
			return NewValidationError("key+certificate credential requires a certificate file", "cert_file")
		}
	default:
		return NewValidationError(fmt.Sprintf("unknown credential kind %q", c.Kind), "kind")
	}
	return nil
}
