// Package migrations embebe los scripts SQL del esquema, aplicados en orden de nombre.
package migrations

import "embed"

// FS contiene los archivos NNN_descripcion.sql.
//
//go:embed *.sql
var FS embed.FS
