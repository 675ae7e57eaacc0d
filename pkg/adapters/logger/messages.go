package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("pt", l10n.LexiconMap{
		// Compositor
		"Composing %s banner for %q":   "Gerando banner %s para %q",
		"Banner %s composed in %d ms":  "Banner %s gerado em %d ms",
		"Request rejected: %s":         "Requisição rejeitada: %s",
		"Failed to compose banner: %s": "Falha ao gerar o banner: %s",

		// Validation
		"Rejected poster URL %s":   "URL do pôster rejeitada: %s",
		"Rejected backdrop URL %s": "URL do backdrop rejeitada: %s",

		// Background stage
		"Backdrop %s unavailable: %v":          "Backdrop %s indisponível: %v",
		"Backdrop lookup for %s %d failed: %v": "Busca de backdrop para %s %d falhou: %v",
		"No usable backdrop for %s %d":         "Nenhum backdrop utilizável para %s %d",
		"Using flat background":                "Usando fundo sólido",

		// Logo stage
		"Logo lookup for user %s failed: %v": "Busca do logo do usuário %s falhou: %v",
		"Logo URL %s not allowed":            "URL do logo %s não permitida",
		"Logo %s unavailable: %v":            "Logo %s indisponível: %v",
		"Default logo %s unavailable: %v":    "Logo padrão %s indisponível: %v",
		"No logo available, omitting layer":  "Nenhum logo disponível, camada omitida",

		// Server
		"Listening on %s":      "Escutando em %s",
		"Server stopped":       "Servidor encerrado",
		"Caches cleared by %s": "Caches limpos por %s",
		"Rejected token: %v":   "Token rejeitado: %v",
		"Output saved to %s":   "Saída salva em %s",

		"No metadata provider configured; exclusive banners use explicit backdrops only": "Nenhum provedor de metadados configurado; banners exclusivos usam apenas backdrops explícitos",
		"Interrupted, shutting down...": "Interrompido, encerrando...",
	})
}
