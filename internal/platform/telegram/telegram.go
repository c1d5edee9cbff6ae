package telegram

import (
	"context"
	"strconv"

	"golang.org/x/time/rate"
	tb "gopkg.in/telebot.v3"

	"github.com/PouyaEvan/topic-limiter/internal/platform"
)

// Gateway adapts the telebot client to the platform interface. All
// outgoing calls pass a shared rate limiter so bursts of deletions and
// warnings stay under Telegram's flood limits.
type Gateway struct {
	bot     *tb.Bot
	limiter *rate.Limiter
}

func NewGateway(bot *tb.Bot, sendsPerSecond int) *Gateway {
	return &Gateway{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), sendsPerSecond),
	}
}

func (g *Gateway) SendMessage(ctx context.Context, chatID int64, threadID int, text string) (int, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	msg, err := g.bot.Send(tb.ChatID(chatID), text, &tb.SendOptions{
		ThreadID:  threadID,
		ParseMode: tb.ModeMarkdown,
	})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (g *Gateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	return g.bot.Delete(tb.StoredMessage{
		ChatID:    chatID,
		MessageID: strconv.Itoa(messageID),
	})
}

func (g *Gateway) ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	members, err := g.bot.AdminsOf(&tb.Chat{ID: chatID})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if m.User != nil {
			ids = append(ids, m.User.ID)
		}
	}
	return ids, nil
}

func (g *Gateway) MemberRole(ctx context.Context, chatID, userID int64) (platform.Role, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return platform.RoleMember, err
	}
	member, err := g.bot.ChatMemberOf(&tb.Chat{ID: chatID}, &tb.User{ID: userID})
	if err != nil {
		return platform.RoleMember, err
	}
	switch member.Role {
	case tb.Creator:
		return platform.RoleCreator, nil
	case tb.Administrator:
		return platform.RoleAdministrator, nil
	default:
		return platform.RoleMember, nil
	}
}
