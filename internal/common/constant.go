// Package common contains shared constants and sentinel errors used across
// DevConnector components.
package common

// AccessTokenHeaderName is the HTTP header the web client uses to carry the
// access token on protected requests.
const AccessTokenHeaderName = "x-auth-token"

// AuthorizationHeaderName is the standard header accepted as an alternative,
// in the form "Bearer <token>".
const AuthorizationHeaderName = "Authorization"
