package middleware

import (
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// GetCustomXRayHTTPClient instruments a caller-configured HTTP client. The
// generation service uses this to trace its Groq calls while keeping its own
// request timeout.
func GetCustomXRayHTTPClient(client *http.Client) *http.Client {
	return xray.Client(client)
}
