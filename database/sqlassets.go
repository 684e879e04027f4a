// Package sqlassets embeds the control-plane DDL so binaries stay self-contained.
package sqlassets

import _ "embed"

//go:embed schema/registry/tenants.sql
var TenantsSQL string
