// Package schema embeds the JSON schemas used to check config blobs.
package schema

import "embed"

// ExportSchema is the schema file name for exported config blobs
const ExportSchema = "economy_export.schema.json"

//go:embed *.json
var FS embed.FS
