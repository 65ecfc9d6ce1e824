// Package db embeds the PostgreSQL schema used by the postgres store.
package db

import _ "embed"

// Schema creates the key-value state table and the sales archive.
//
//go:embed migrations/001_schema.sql
var Schema string
