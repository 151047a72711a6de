// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits); AppConfig is everything specific to
// GatherHub: the database, the token signing key, and the Google
// sign-in credentials.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// TokenKey signs the bearer credentials issued at login. Must be
	// strong in production; 32+ random bytes.
	TokenKey string

	// Google OAuth configuration (blank disables Google sign-in)
	GoogleClientID     string
	GoogleClientSecret string

	// BaseURL builds the OAuth callback URL.
	BaseURL string
}
