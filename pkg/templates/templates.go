// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// ConfigYAML contains the default gntaxa.yaml template for application
// configuration. All values are commented out; uncommenting one
// overrides the built-in default.
//
//go:embed gntaxa.yaml
var ConfigYAML string
