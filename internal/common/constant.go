package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token
// on inbound requests.
const AccessTokenHeaderName = "access_token"
