// Package main provides localization for the orionbanner CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Portuguese translations for CLI messages.
	l10n.Register("pt", l10n.LexiconMap{
		// Root command
		"Generate promotional banners for movies and series":  "Gera banners promocionais de filmes e séries",
		"YAML configuration file":                             "Arquivo de configuração YAML",
		"Log level (debug, info, warn, error)":                "Nível de log (debug, info, warn, error)",
		"Suppress all log output":                             "Suprime toda a saída de log",
		"Write intermediate artifacts to the debug directory": "Grava artefatos intermediários no diretório de depuração",
		"Directory for debug output":                          "Diretório para saída de depuração",

		// serve
		"Run the HTTP API":                       "Executa a API HTTP",
		"Listen address (overrides server.addr)": "Endereço de escuta (sobrepõe server.addr)",

		// render
		"Compose one banner from a JSON request file":         "Gera um banner a partir de um arquivo JSON de requisição",
		"Request JSON, same fields as POST /api/gerar-banner": "JSON da requisição, mesmos campos de POST /api/gerar-banner",
		"Output PNG path (default: banner_<title>.png)":       "Caminho do PNG de saída (padrão: banner_<titulo>.png)",
		"User id used for the logo lookup":                    "Id do usuário usado na busca do logo",

		// token
		"Issue a bearer token for local testing":          "Emite um token bearer para testes locais",
		"User id carried in the sub claim":                "Id do usuário levado na claim sub",
		"Token lifetime":                                  "Validade do token",
		"auth.jwt_secret or ORION_JWT_SECRET is required": "auth.jwt_secret ou ORION_JWT_SECRET é obrigatório",

		// version
		"Show version information": "Mostra informações de versão",
		"orionbanner version %s":   "orionbanner versão %s",
	})
}
