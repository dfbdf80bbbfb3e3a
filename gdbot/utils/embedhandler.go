package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
)

const (
	SuccessColor = 0x2ECC71
	ErrorColor   = 0xE74C3C
	WarningColor = 0xF1C40F
	EmbedColor   = 0x2B2D31
)

// ResponseHandler provides standardized response methods for commands and
// components.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

type messageCreator interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

func (h *ResponseHandler) CreateErrorEmbed(e messageCreator, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{
			{
				Title:       "❌ Error",
				Description: description,
				Color:       ErrorColor,
			},
		},
	})
}

// CreateCooldownEmbed renders an expected cooldown denial; it is not an
// error path.
func (h *ResponseHandler) CreateCooldownEmbed(e messageCreator, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{
			{
				Title:       "⏰ Not so fast!",
				Description: description,
				Color:       WarningColor,
			},
		},
	})
}

func (h *ResponseHandler) CreateEphemeralError(e messageCreator, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{
			{
				Title:       "❌ Error",
				Description: description,
				Color:       ErrorColor,
			},
		},
		Flags: discord.MessageFlagEphemeral,
	})
}
