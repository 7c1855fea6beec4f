package bot

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"rvd/internal/models"
)

// Callback payloads are "<discriminant>_<identifier>": valid_/invalid_ carry
// the report dedup key, approve_/reject_ the subscription request ID.
const (
	prefixValid   = "valid"
	prefixInvalid = "invalid"
	prefixApprove = "approve"
	prefixReject  = "reject"
)

type ActionKind uint8

const (
	ActionVote ActionKind = iota
	ActionDecision
)

type Action struct {
	Kind      ActionKind
	Verdict   models.Verdict
	ReportKey string
	Approve   bool
	RequestID int64
}

func VotePayload(v models.Verdict, reportKey string) string {
	if v == models.VerdictValid {
		return prefixValid + "_" + reportKey
	}
	return prefixInvalid + "_" + reportKey
}

func DecisionPayload(approve bool, requestID int64) string {
	prefix := prefixReject
	if approve {
		prefix = prefixApprove
	}
	return prefix + "_" + strconv.FormatInt(requestID, 10)
}

// ParseAction decodes a callback payload. Anything that does not match a
// known discriminant and identifier shape is models.ErrMalformedPayload.
func ParseAction(data string) (Action, error) {
	prefix, rest, found := strings.Cut(data, "_")
	if !found || rest == "" {
		return Action{}, models.ErrMalformedPayload
	}

	switch prefix {
	case prefixValid:
		return Action{Kind: ActionVote, Verdict: models.VerdictValid, ReportKey: rest}, nil
	case prefixInvalid:
		return Action{Kind: ActionVote, Verdict: models.VerdictInvalid, ReportKey: rest}, nil
	case prefixApprove, prefixReject:
		id, err := cast.ToInt64E(rest)
		if err != nil {
			return Action{}, models.ErrMalformedPayload
		}
		return Action{Kind: ActionDecision, Approve: prefix == prefixApprove, RequestID: id}, nil
	}
	return Action{}, models.ErrMalformedPayload
}
