package bot

import (
	"fmt"

	"rvd/internal/models"
)

// User-facing strings of the original deployment; the daemon serves a
// German-speaking audience.
const (
	TextLocationPrompt = "Bitte sende den Ort der Hausdurchsuchung."
	TextLocationButton = "Sende derzeitigen Standort."
	TextThanks         = "Vielen Dank für deine Hilfe."

	TextAlreadySubscribed  = "Dieses Ziel ist bereits abonniert."
	TextRequestForwarded   = "Anfrage gesendet. Der Betreiber wurde benachrichtigt."
	TextRequestApproved    = "Abonnement bestätigt."
	TextRequestRejected    = "Anfrage abgelehnt."
	TextNotAuthorized      = "Nur der Betreiber kann das entscheiden."
	TextUnknownRequest     = "Diese Anfrage ist nicht mehr offen."
	TextVoteRecorded       = "Stimme gezählt."
	TextVoteUnchanged      = "Stimme unverändert."
	TextVoteUnknownReport  = "Diese Meldung ist nicht mehr aktiv."

	buttonValid   = "Valid"
	buttonInvalid = "Invalid"
	buttonApprove = "Bestätigen"
	buttonReject  = "Ablehnen"
)

// RenderReport builds the broadcast text for a report. Without votes it is
// the bare announcement; with votes the validity line is appended.
func RenderReport(r *models.LocationReport) string {
	address := r.Address
	if address == "" {
		address = fmt.Sprintf("Unbekannte Adresse (%.5f, %.5f)", r.Latitude, r.Longitude)
	}

	text := fmt.Sprintf("Der Nutzer @%s meldet eine Hausdurchsuchung an folgender Adresse:\n%s", r.Reporter, address)

	if total := r.Votes.Total(); total > 0 {
		text += fmt.Sprintf("\n\nValidity: %.2f%%\nVotes: %d", r.Votes.ValidPercent(), total)
	}
	return text
}

// VoteKeyboard renders the two-button verdict control. Button labels carry
// the live counts once anybody has voted.
func VoteKeyboard(r *models.LocationReport) [][]Button {
	valid, invalid := buttonValid, buttonInvalid
	if r.Votes.Total() > 0 {
		valid = fmt.Sprintf("%s (%d)", buttonValid, r.Votes.ValidCount())
		invalid = fmt.Sprintf("%s (%d)", buttonInvalid, r.Votes.InvalidCount())
	}
	return [][]Button{{
		{Text: valid, Data: VotePayload(models.VerdictValid, r.DedupKey)},
		{Text: invalid, Data: VotePayload(models.VerdictInvalid, r.DedupKey)},
	}}
}

// RenderSubscriptionPrompt is the owner-facing confirmation. The wording is a
// pure function of the requester kind, so every per-kind branch stays visible
// here instead of being scattered through the workflow.
func RenderSubscriptionPrompt(req *models.SubscriptionRequest) string {
	switch req.Kind {
	case models.KindPrivate:
		return fmt.Sprintf("Der Nutzer @%s (%d) möchte den Alarm abonnieren.", req.Requester, req.Destination)
	case models.KindChannel:
		return fmt.Sprintf("Der Kanal »%s« (%d) möchte den Alarm abonnieren.\nAngefragt von @%s.", req.Title, req.Destination, req.Requester)
	default:
		return fmt.Sprintf("Die Gruppe »%s« (%d) möchte den Alarm abonnieren.\nAngefragt von @%s.", req.Title, req.Destination, req.Requester)
	}
}

func RenderSubscriptionDecision(req *models.SubscriptionRequest, approved bool) string {
	if approved {
		return fmt.Sprintf("Abonnement bestätigt: »%s« (%d).", req.Title, req.Destination)
	}
	return fmt.Sprintf("Abonnement abgelehnt: »%s« (%d).", req.Title, req.Destination)
}

func DecisionKeyboard(requestID int64) [][]Button {
	return [][]Button{{
		{Text: buttonApprove, Data: DecisionPayload(true, requestID)},
		{Text: buttonReject, Data: DecisionPayload(false, requestID)},
	}}
}
