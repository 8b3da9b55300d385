// Package bot provides messaging bot integration plugins.
package bot

import (
	"context"

	"github.com/quiltlabs/quilt/internal/blueprint"
	"github.com/quiltlabs/quilt/internal/codegen"
	"github.com/quiltlabs/quilt/internal/plugins"
)

// Telegram generates a notification bot service that pushes on-chain events
// to a chat.
type Telegram struct {
	schema plugins.ConfigSchema
}

func NewTelegram() *Telegram {
	return &Telegram{schema: plugins.ConfigSchema{Fields: []plugins.FieldSpec{
		{Name: "notifyTransfers", Type: plugins.FieldBoolean, Default: true},
		{Name: "commandPrefix", Type: plugins.FieldString, Default: "/"},
	}}}
}

func (p *Telegram) Metadata() plugins.Metadata {
	return plugins.Metadata{
		ID:       "telegram-bot",
		Name:     "Telegram Bot",
		Version:  "1.0.0",
		Category: "bot",
	}
}

func (p *Telegram) Validate(node *blueprint.Node) plugins.ValidationResult {
	return p.schema.ValidateConfig(node)
}

func (p *Telegram) Generate(_ context.Context, _ *blueprint.Node, _ codegen.PathContext) (*codegen.Output, error) {
	return &codegen.Output{
		Files: []codegen.File{
			{Path: "telegram.ts", Category: codegen.CategoryBackendServices, Content: botService},
			{Path: "constants.ts", Category: codegen.CategoryBackendLib, Content: botConstants},
		},
		EnvVars: []codegen.EnvVar{
			{Key: "TELEGRAM_BOT_TOKEN", Description: "BotFather token", Secret: true},
			{Key: "TELEGRAM_CHAT_ID", Description: "Target chat for notifications"},
		},
		Scripts: []codegen.Script{
			{Name: "bot:start", Command: "tsx src/services/telegram.ts"},
		},
	}, nil
}

const botService = `import { TELEGRAM_API } from '../lib/constants';

export async function sendMessage(text: string): Promise<void> {
  const token = process.env.TELEGRAM_BOT_TOKEN;
  const chatId = process.env.TELEGRAM_CHAT_ID;
  if (!token || !chatId) {
    throw new Error('TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set');
  }
  const res = await fetch(TELEGRAM_API + token + '/sendMessage', {
    method: 'POST',
    headers: { 'content-type': 'application/json' },
    body: JSON.stringify({ chat_id: chatId, text, parse_mode: 'Markdown' }),
  });
  if (!res.ok) {
    throw new Error('telegram send failed: ' + res.status);
  }
}

export async function notifyTransfer(from: string, to: string, amount: string): Promise<void> {
  await sendMessage('Transfer: ' + amount + ' from ' + from + ' to ' + to);
}
`

const botConstants = `export const TELEGRAM_API = 'https://api.telegram.org/bot';
export const RETRY_LIMIT = 3;
`
