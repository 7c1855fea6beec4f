package services

import (
	"sync"

	"go.uber.org/atomic"

	"rvd/internal/bot"
	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/store"
	"rvd/internal/structures"
)

// SubscriptionServiceInterface runs the owner-gated subscription workflow.
// Pending requests live in memory only; a restart drops them and requesters
// simply ask again.
type SubscriptionServiceInterface interface {
	// Request asks the owner to admit the chat. Returns false when the
	// destination is already subscribed; a still-open request for the same
	// destination is re-reported as forwarded without a second prompt.
	Request(chat bot.Chat, from bot.User) (bool, error)
	// Decide resolves a pending request. Only the configured owner may call
	// this; anybody else gets models.ErrNotAuthorized. A decided or unknown
	// ID is models.ErrUnknownRequest.
	Decide(actor bot.User, requestID int64, approve bool) (*models.SubscriptionRequest, error)
	PendingCount() int
}

type SubscriptionService struct {
	mu        sync.Mutex
	pending   map[int64]*models.SubscriptionRequest
	byDest    map[string]int64
	nextID    *atomic.Int64
	transport bot.Transport
	directory store.ChannelDirectoryInterface
	logger    providers.Logger
	ownerID   int64
}

func NewSubscriptionService(
	conf *structures.Config,
	transport bot.Transport,
	directory store.ChannelDirectoryInterface,
	logger providers.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		pending:   make(map[int64]*models.SubscriptionRequest),
		byDest:    make(map[string]int64),
		nextID:    atomic.NewInt64(0),
		transport: transport,
		directory: directory,
		logger:    logger,
		ownerID:   conf.Transport.OwnerID,
	}
}

func (s *SubscriptionService) Request(chat bot.Chat, from bot.User) (bool, error) {
	entry := models.ChannelEntry{DestinationID: chat.ID, ThreadID: chat.ThreadID}
	if s.directory.Contains(entry) {
		return false, nil
	}

	req := &models.SubscriptionRequest{
		ID:          s.nextID.Inc(),
		Destination: chat.ID,
		ThreadID:    chat.ThreadID,
		Kind:        chat.Kind,
		Title:       chat.Title,
		Requester:   from.Username,
	}

	// The byDest slot is reserved before the prompt goes out so a concurrent
	// request for the same destination cannot raise a second one.
	s.mu.Lock()
	if _, open := s.byDest[entry.Key()]; open {
		s.mu.Unlock()
		return true, nil
	}
	s.byDest[entry.Key()] = req.ID
	s.mu.Unlock()

	msgID, err := s.transport.Send(s.ownerID, 0, bot.RenderSubscriptionPrompt(req), bot.DecisionKeyboard(req.ID))
	if err != nil {
		s.mu.Lock()
		if id, held := s.byDest[entry.Key()]; held && id == req.ID {
			delete(s.byDest, entry.Key())
		}
		s.mu.Unlock()
		return false, err
	}
	req.PromptMessageID = msgID

	s.mu.Lock()
	s.pending[req.ID] = req
	s.mu.Unlock()

	s.logger.Infof(providers.TypeBot, "Subscription request #%d for %d (%s) by @%s", req.ID, chat.ID, chat.Kind, from.Username)
	return true, nil
}

func (s *SubscriptionService) Decide(actor bot.User, requestID int64, approve bool) (*models.SubscriptionRequest, error) {
	if actor.ID != s.ownerID {
		return nil, models.ErrNotAuthorized
	}

	s.mu.Lock()
	req, ok := s.pending[requestID]
	if ok {
		delete(s.pending, requestID)
		key := models.ChannelEntry{DestinationID: req.Destination, ThreadID: req.ThreadID}.Key()
		// Only drop the mapping when it still points at this request.
		if id, held := s.byDest[key]; held && id == requestID {
			delete(s.byDest, key)
		}
	}
	s.mu.Unlock()
	if !ok {
		return nil, models.ErrUnknownRequest
	}

	if approve {
		added, err := s.directory.Add(models.ChannelEntry{DestinationID: req.Destination, ThreadID: req.ThreadID})
		if err != nil {
			// Put the request back; the owner can retry the click.
			s.mu.Lock()
			s.pending[req.ID] = req
			key := models.ChannelEntry{DestinationID: req.Destination, ThreadID: req.ThreadID}.Key()
			if _, held := s.byDest[key]; !held {
				s.byDest[key] = req.ID
			}
			s.mu.Unlock()
			return nil, err
		}
		if !added {
			s.logger.Debugf(providers.TypeBot, "Destination %d was already subscribed", req.Destination)
		}
	}

	if err := s.transport.Edit(s.ownerID, req.PromptMessageID, bot.RenderSubscriptionDecision(req, approve), nil); err != nil {
		s.logger.Warnf(providers.TypeBot, "Could not update decision prompt #%d: %s", req.ID, err)
	}

	notice := bot.TextRequestRejected
	if approve {
		notice = bot.TextRequestApproved
	}
	if err := s.transport.SendPlain(req.Destination, notice); err != nil {
		s.logger.Warnf(providers.TypeBot, "Could not notify %d about request #%d: %s", req.Destination, req.ID, err)
	}

	s.logger.Infof(providers.TypeBot, "Subscription request #%d for %d decided: approve=%t", req.ID, req.Destination, approve)
	return req, nil
}

func (s *SubscriptionService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
