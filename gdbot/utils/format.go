package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdcards/bot/gdbot/catalog"
)

const CardsPerPage = 10

func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if n < 0 {
		str = str[1:]
	}

	var result []byte
	for i := len(str) - 1; i >= 0; i-- {
		if (len(str)-i-1)%3 == 0 && i != len(str)-1 {
			result = append([]byte{','}, result...)
		}
		result = append([]byte{str[i]}, result...)
	}

	if n < 0 {
		return "-" + string(result)
	}
	return string(result)
}

// FormatDuration renders a remaining cooldown as "1h 23m 45s", dropping
// leading zero units.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 || h > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", s))
	return strings.Join(parts, " ")
}

func Stars(n int) string {
	return strings.Repeat("⭐", n)
}

func RarityColor(r catalog.Rarity) int {
	switch r {
	case catalog.RarityCommon:
		return 0x808080
	case catalog.RarityRare:
		return 0x3498DB
	case catalog.RarityEpic:
		return 0x9B59B6
	case catalog.RarityLegendary:
		return 0xFFD700
	default:
		return EmbedColor
	}
}

func RarityEmoji(r catalog.Rarity) string {
	switch r {
	case catalog.RarityCommon:
		return "⚪"
	case catalog.RarityRare:
		return "🔵"
	case catalog.RarityEpic:
		return "🟣"
	case catalog.RarityLegendary:
		return "🟡"
	default:
		return "💎"
	}
}
