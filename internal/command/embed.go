package command

// Discord embed limits, counted in characters.
const (
	EmbedDescriptionLimit = 4096
	EmbedFieldValueLimit  = 1024
)

// Truncate cuts s to at most limit characters, ending it with "…" when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
