package utils

import (
	"strings"
	"time"
)

// SanitizeFileTitle reduz um título de estudo a um nome de arquivo seguro:
// minúsculas, com tudo que não for letra ou dígito virando "_"
func SanitizeFileTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// FormatSubmittedAt formata o carimbo de submissão para exibição na
// exportação
func FormatSubmittedAt(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// DateStamp devolve a data no formato usado nos nomes de arquivos exportados
func DateStamp(t time.Time) string {
	return t.Format("2006-01-02")
}
