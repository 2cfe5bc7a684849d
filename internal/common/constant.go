package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// UserAgentHeaderName is read on login to describe the signing-in device.
const UserAgentHeaderName = "User-Agent"

// InternalErrorMessage is the only text clients see for unexpected failures.
const InternalErrorMessage = "Something went wrong. Please try again later."

// Default paging used when a caller omits or sends invalid page parameters.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
)
