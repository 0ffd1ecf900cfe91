package common

// AuthorizationHeaderName is the HTTP header / gRPC metadata key that carries
// the bearer credential.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the credential in the authorization value.
const BearerPrefix = "Bearer "

// MaxPageLimit caps the page size of directory listings.
const MaxPageLimit = 100

// DefaultPageLimit is used when a directory request omits the page size.
const DefaultPageLimit = 10
