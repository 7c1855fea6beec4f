package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvd/internal/models"
)

func reportFixture(address string) *models.LocationReport {
	return models.NewLocationReport(52.5, 13.4, address, "alice", time.Now(), 7*24*time.Hour)
}

func TestRenderReport_WithAddress(t *testing.T) {
	text := RenderReport(reportFixture("Teststraße 1,\n12345 Berlin"))
	assert.Equal(t, "Der Nutzer @alice meldet eine Hausdurchsuchung an folgender Adresse:\nTeststraße 1,\n12345 Berlin", text)
}

func TestRenderReport_FallbackToCoordinates(t *testing.T) {
	text := RenderReport(reportFixture(""))
	assert.Contains(t, text, "Unbekannte Adresse (52.50000, 13.40000)")
}

func TestRenderReport_AppendsTally(t *testing.T) {
	r := reportFixture("Teststraße 1,\n12345 Berlin")
	r.Votes.Cast(1, models.VerdictValid)
	r.Votes.Cast(2, models.VerdictValid)
	r.Votes.Cast(3, models.VerdictValid)
	r.Votes.Cast(4, models.VerdictInvalid)

	text := RenderReport(r)
	assert.Contains(t, text, "Validity: 75.00%")
	assert.Contains(t, text, "Votes: 4")
}

func TestVoteKeyboard_PlainBeforeAnyVote(t *testing.T) {
	kb := VoteKeyboard(reportFixture(""))
	require.Len(t, kb, 1)
	require.Len(t, kb[0], 2)

	assert.Equal(t, "Valid", kb[0][0].Text)
	assert.Equal(t, "valid_52.5000:13.4000", kb[0][0].Data)
	assert.Equal(t, "Invalid", kb[0][1].Text)
	assert.Equal(t, "invalid_52.5000:13.4000", kb[0][1].Data)
}

func TestVoteKeyboard_CountsOnceVoted(t *testing.T) {
	r := reportFixture("")
	r.Votes.Cast(1, models.VerdictValid)
	r.Votes.Cast(2, models.VerdictInvalid)
	r.Votes.Cast(3, models.VerdictInvalid)

	kb := VoteKeyboard(r)
	assert.Equal(t, "Valid (1)", kb[0][0].Text)
	assert.Equal(t, "Invalid (2)", kb[0][1].Text)
}

func subscriptionFixture(kind models.RequesterKind) *models.SubscriptionRequest {
	return &models.SubscriptionRequest{
		ID:          3,
		Destination: -100,
		Kind:        kind,
		Title:       "Nachbarschaft",
		Requester:   "alice",
	}
}

func TestRenderSubscriptionPrompt_PerKind(t *testing.T) {
	assert.Contains(t, RenderSubscriptionPrompt(subscriptionFixture(models.KindPrivate)), "Der Nutzer @alice")
	assert.Contains(t, RenderSubscriptionPrompt(subscriptionFixture(models.KindChannel)), "Der Kanal »Nachbarschaft«")
	assert.Contains(t, RenderSubscriptionPrompt(subscriptionFixture(models.KindGroup)), "Die Gruppe »Nachbarschaft«")
	assert.Contains(t, RenderSubscriptionPrompt(subscriptionFixture(models.KindSupergroup)), "Die Gruppe »Nachbarschaft«")
}

func TestRenderSubscriptionDecision(t *testing.T) {
	assert.Contains(t, RenderSubscriptionDecision(subscriptionFixture(models.KindGroup), true), "bestätigt")
	assert.Contains(t, RenderSubscriptionDecision(subscriptionFixture(models.KindGroup), false), "abgelehnt")
}

func TestDecisionKeyboard(t *testing.T) {
	kb := DecisionKeyboard(9)
	require.Len(t, kb, 1)
	require.Len(t, kb[0], 2)

	assert.Equal(t, "Bestätigen", kb[0][0].Text)
	assert.Equal(t, "approve_9", kb[0][0].Data)
	assert.Equal(t, "Ablehnen", kb[0][1].Text)
	assert.Equal(t, "reject_9", kb[0][1].Data)
}
