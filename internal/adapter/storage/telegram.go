package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/semmidev/rewind/internal/config"
)

// telegramFileLimit is the bot API upload cap; larger artifacts are
// announced instead of sent.
const telegramFileLimit = 50 * 1024 * 1024

type TelegramStorage struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	sendFile bool
}

func NewTelegram(cfg *config.UploadTarget) (*TelegramStorage, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", cfg.ChatID, err)
	}

	return &TelegramStorage{
		bot:      bot,
		chatID:   chatID,
		sendFile: cfg.SendFile,
	}, nil
}

func (t *TelegramStorage) Upload(ctx context.Context, localPath string, remoteName string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if t.sendFile && info.Size() <= telegramFileLimit {
		doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FilePath(localPath))
		doc.Caption = remoteName
		if _, err := t.bot.Send(doc); err != nil {
			return fmt.Errorf("failed to send telegram document: %w", err)
		}
		return nil
	}

	message := fmt.Sprintf(
		"Backup created\nFile: %s\nSize: %.2f MB\nTime: %s",
		remoteName,
		float64(info.Size())/(1024*1024),
		info.ModTime().Format("2006-01-02 15:04:05"),
	)
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, message)); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}
