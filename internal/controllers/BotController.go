package controllers

import (
	"context"
	"errors"

	"rvd/internal/bot"
	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/services"
)

// BotController dispatches inbound transport updates to the services. It owns
// no state beyond its dependencies; every decision lives in the service layer.
type BotController struct {
	reports       services.ReportServiceInterface
	votes         services.VoteProcessorInterface
	subscriptions services.SubscriptionServiceInterface
	transport     bot.Transport
	logger        providers.Logger
}

func NewBotController(
	reports services.ReportServiceInterface,
	votes services.VoteProcessorInterface,
	subscriptions services.SubscriptionServiceInterface,
	transport bot.Transport,
	logger providers.Logger,
) *BotController {
	return &BotController{
		reports:       reports,
		votes:         votes,
		subscriptions: subscriptions,
		transport:     transport,
		logger:        logger,
	}
}

func (bc *BotController) HandleStart(chat bot.Chat, from bot.User) {
	if chat.Kind != models.KindPrivate {
		bc.HandleSubscribe(chat, from)
		return
	}
	if err := bc.transport.PromptLocation(chat.ID, bot.TextLocationPrompt, bot.TextLocationButton); err != nil {
		bc.logger.Errorf(providers.TypeBot, "Location prompt to %d failed: %s", chat.ID, err)
	}
}

func (bc *BotController) HandleSubscribe(chat bot.Chat, from bot.User) {
	forwarded, err := bc.subscriptions.Request(chat, from)
	if err != nil {
		bc.logger.Errorf(providers.TypeBot, "Subscription request for %d failed: %s", chat.ID, err)
		return
	}

	notice := bot.TextAlreadySubscribed
	if forwarded {
		notice = bot.TextRequestForwarded
	}
	if err := bc.transport.SendPlain(chat.ID, notice); err != nil {
		bc.logger.Warnf(providers.TypeBot, "Could not answer %d: %s", chat.ID, err)
	}
}

func (bc *BotController) HandleLocation(chat bot.Chat, from bot.User, lat, lon float64) {
	if _, _, err := bc.reports.Ingest(context.Background(), lat, lon, from.Username); err != nil {
		bc.logger.Errorf(providers.TypeBot, "Ingest from @%s failed: %s", from.Username, err)
		return
	}
	if err := bc.transport.ReplyRemoveKeyboard(chat.ID, bot.TextThanks); err != nil {
		bc.logger.Warnf(providers.TypeBot, "Could not thank %d: %s", chat.ID, err)
	}
}

func (bc *BotController) HandleCallback(chat bot.Chat, from bot.User, messageID int, payload string) string {
	action, err := bot.ParseAction(payload)
	if err != nil {
		bc.logger.Warnf(providers.TypeBot, "Dropping malformed callback %q from %d", payload, from.ID)
		return ""
	}

	switch action.Kind {
	case bot.ActionVote:
		return bc.handleVote(chat, from, messageID, action.Verdict)
	case bot.ActionDecision:
		return bc.handleDecision(from, action)
	}
	return ""
}

func (bc *BotController) handleVote(chat bot.Chat, from bot.User, messageID int, verdict models.Verdict) string {
	changed, err := bc.votes.CastVote(chat.ID, messageID, from.ID, verdict)
	switch {
	case errors.Is(err, models.ErrUnknownReport):
		return bot.TextVoteUnknownReport
	case err != nil:
		bc.logger.Errorf(providers.TypeBot, "Vote by %d failed: %s", from.ID, err)
		return ""
	case changed:
		return bot.TextVoteRecorded
	}
	return bot.TextVoteUnchanged
}

func (bc *BotController) handleDecision(from bot.User, action bot.Action) string {
	_, err := bc.subscriptions.Decide(from, action.RequestID, action.Approve)
	switch {
	case errors.Is(err, models.ErrNotAuthorized):
		return bot.TextNotAuthorized
	case errors.Is(err, models.ErrUnknownRequest):
		return bot.TextUnknownRequest
	case err != nil:
		bc.logger.Errorf(providers.TypeBot, "Decision on #%d failed: %s", action.RequestID, err)
		return ""
	}
	if action.Approve {
		return bot.TextRequestApproved
	}
	return bot.TextRequestRejected
}

func (bc *BotController) HandlePromotion(chat bot.Chat, from bot.User) {
	forwarded, err := bc.subscriptions.Request(chat, from)
	if err != nil {
		bc.logger.Errorf(providers.TypeBot, "Subscription request after promotion in %d failed: %s", chat.ID, err)
		return
	}
	if forwarded {
		bc.logger.Infof(providers.TypeBot, "Promotion in %d forwarded as subscription request", chat.ID)
	}
}
