// Package openapi embeds the OpenAPI description of the catalog routes.
package openapi

import _ "embed"

// YAML is served at /openapi.yaml and rendered by /docs.
//
//go:embed openapi.yaml
var YAML []byte
