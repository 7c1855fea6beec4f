package bot

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/structures"
)

// TelegramTransport adapts the neutral Transport and UpdateHandler contracts
// to telebot. Nothing outside this file touches the library.
type TelegramTransport struct {
	bot    *tele.Bot
	logger providers.Logger
}

func NewTelegramTransport(conf *structures.Config, logger providers.Logger) (*TelegramTransport, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  conf.Transport.Token,
		Poller: &tele.LongPoller{Timeout: conf.Transport.PollTimeout},
	})
	if err != nil {
		return nil, err
	}
	return &TelegramTransport{bot: b, logger: logger}, nil
}

// Run registers the update handlers and blocks polling until Stop.
func (t *TelegramTransport) Run(handler UpdateHandler) {
	t.bot.Handle("/start", func(c tele.Context) error {
		handler.HandleStart(chatOf(c.Chat(), threadOf(c.Message())), userOf(c.Sender()))
		return nil
	})

	t.bot.Handle("/subscribe", func(c tele.Context) error {
		handler.HandleSubscribe(chatOf(c.Chat(), threadOf(c.Message())), userOf(c.Sender()))
		return nil
	})

	t.bot.Handle(tele.OnLocation, func(c tele.Context) error {
		loc := c.Message().Location
		if loc == nil {
			return nil
		}
		handler.HandleLocation(
			chatOf(c.Chat(), threadOf(c.Message())),
			userOf(c.Sender()),
			float64(loc.Lat), float64(loc.Lng),
		)
		return nil
	})

	t.bot.Handle(tele.OnCallback, func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil || cb.Message == nil {
			return nil
		}
		payload := strings.TrimPrefix(cb.Data, "\f")
		ack := handler.HandleCallback(
			chatOf(cb.Message.Chat, threadOf(cb.Message)),
			userOf(cb.Sender),
			cb.Message.ID,
			payload,
		)
		return c.Respond(&tele.CallbackResponse{Text: ack})
	})

	t.bot.Handle(tele.OnMyChatMember, func(c tele.Context) error {
		upd := c.ChatMember()
		if upd == nil || upd.NewChatMember == nil {
			return nil
		}
		if upd.NewChatMember.Role != tele.Administrator {
			return nil
		}
		handler.HandlePromotion(chatOf(upd.Chat, 0), userOf(upd.Sender))
		return nil
	})

	t.logger.Infof(providers.TypeBot, "Polling for updates")
	t.bot.Start()
}

func (t *TelegramTransport) Stop() {
	t.bot.Stop()
}

func (t *TelegramTransport) Send(destinationID int64, threadID int, text string, buttons [][]Button) (int, error) {
	opts := &tele.SendOptions{ThreadID: threadID}
	if buttons != nil {
		opts.ReplyMarkup = inlineMarkup(buttons)
	}
	msg, err := t.bot.Send(tele.ChatID(destinationID), text, opts)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (t *TelegramTransport) SendLocation(destinationID int64, threadID int, lat, lon float64) error {
	_, err := t.bot.Send(
		tele.ChatID(destinationID),
		&tele.Location{Lat: float32(lat), Lng: float32(lon)},
		&tele.SendOptions{ThreadID: threadID},
	)
	return err
}

func (t *TelegramTransport) Edit(destinationID int64, messageID int, text string, buttons [][]Button) error {
	msg := tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    destinationID,
	}
	opts := &tele.SendOptions{}
	if buttons != nil {
		opts.ReplyMarkup = inlineMarkup(buttons)
	}
	_, err := t.bot.Edit(msg, text, opts)
	return err
}

func (t *TelegramTransport) SendPlain(destinationID int64, text string) error {
	_, err := t.bot.Send(tele.ChatID(destinationID), text)
	return err
}

func (t *TelegramTransport) PromptLocation(destinationID int64, text, buttonText string) error {
	markup := &tele.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
		ReplyKeyboard: [][]tele.ReplyButton{{
			{Text: buttonText, Location: true},
		}},
	}
	_, err := t.bot.Send(tele.ChatID(destinationID), text, markup)
	return err
}

func (t *TelegramTransport) ReplyRemoveKeyboard(destinationID int64, text string) error {
	_, err := t.bot.Send(tele.ChatID(destinationID), text, &tele.ReplyMarkup{RemoveKeyboard: true})
	return err
}

func inlineMarkup(rows [][]Button) *tele.ReplyMarkup {
	kb := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		kb[i] = make([]tele.InlineButton, len(row))
		for j, b := range row {
			kb[i][j] = tele.InlineButton{Text: b.Text, Data: b.Data}
		}
	}
	return &tele.ReplyMarkup{InlineKeyboard: kb}
}

func chatOf(c *tele.Chat, threadID int) Chat {
	if c == nil {
		return Chat{}
	}
	return Chat{
		ID:       c.ID,
		Kind:     kindOf(c.Type),
		Title:    c.Title,
		ThreadID: threadID,
	}
}

func threadOf(m *tele.Message) int {
	if m == nil {
		return 0
	}
	return m.ThreadID
}

func userOf(u *tele.User) User {
	if u == nil {
		return User{}
	}
	return User{ID: u.ID, Username: u.Username}
}

func kindOf(t tele.ChatType) models.RequesterKind {
	switch t {
	case tele.ChatPrivate:
		return models.KindPrivate
	case tele.ChatGroup:
		return models.KindGroup
	case tele.ChatSuperGroup:
		return models.KindSupergroup
	case tele.ChatChannel, tele.ChatChannelPrivate:
		return models.KindChannel
	}
	return models.KindGroup
}
