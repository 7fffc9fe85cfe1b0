// Package locales embute os arquivos de tradução no binário.
package locales

import "embed"

//go:embed *.json
var FS embed.FS
