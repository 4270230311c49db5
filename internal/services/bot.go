package services

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"boostpanel/internal/models"
)

// Bot pushes operational notifications to the owner's Telegram chat: boost
// completions, banned accounts, campaign failures.
type Bot struct {
	token string
}

func NewBot(token string) (*Bot, error) {
	return &Bot{token}, nil
}

func (bot *Bot) SendMsg(chatID int64, text string) error {
	pref := tele.Settings{
		Token:  bot.token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	_, err = b.Send(&tele.User{ID: chatID}, text, &tele.SendOptions{
		ParseMode: tele.ModeHTML,
	})
	if err != nil {
		return err
	}

	return nil
}

func (bot *Bot) NotifyBoostCompleted(chatID int64, record *models.BoostedPost) error {
	text := fmt.Sprintf(`✅ <b>Boost completed</b>

Post: %s
Likes added: %d
Comments added: %d
Shares added: %d`,
		record.PostID, record.Metrics.LikesAdded, record.Metrics.CommentsAdded, record.Metrics.SharesAdded)
	if record.Remainder > 0 {
		text += fmt.Sprintf("\nUnfulfilled: %d", record.Remainder)
	}
	return bot.SendMsg(chatID, text)
}

func (bot *Bot) NotifyAccountBanned(chatID int64, account *models.BoostAccount) error {
	return bot.SendMsg(chatID, fmt.Sprintf("⛔️ Account <b>%s</b> was banned and removed from rotation.", account.Handle))
}
