package config

// CategoryWeights orders command categories in the help listing.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"💬 Quotes":       10,
	"🔑 Roles":        20,
	"🛡️ Moderation":  30,
	"🛠️ Maintenance": 60,
}
