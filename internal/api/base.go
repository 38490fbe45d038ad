package api

// DefaultBaseURL is the deployed backend used when no API URL is configured.
const DefaultBaseURL = "https://oopresourcehub-api-669515337272.asia-southeast1.run.app"

// DefaultAPIVersion is the versioned API root appended to the base URL.
const DefaultAPIVersion = "/api/v1"

// NewDefaultClient builds a client pointed at the default backend endpoint.
func NewDefaultClient(opts ...Option) *Client {
	return NewClient(DefaultBaseURL+DefaultAPIVersion, opts...)
}
