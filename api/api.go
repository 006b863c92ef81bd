// Package api embeds the OpenAPI description served under /docs.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPISpec []byte
