package common

// AuthTokenName is the cookie name (HTTP) and metadata key (gRPC) that
// carries the web token.
const AuthTokenName = "auth-token"
