package engine

import (
	"fmt"
	"strings"

	"github.com/dpk1212/heartglow-go/internal/models"
)

// Matches reports whether a message event counts toward a challenge's
// criteria. Pure; recipient distinctness for multi-recipient challenges is
// enforced by the progress transaction, not here.
//
// Unknown criteria types fail closed: the event does not match, and the
// error identifies the bad type so the caller can log a configuration
// warning instead of crashing.
func Matches(c models.Criteria, ev models.MessageEvent) (bool, error) {
	switch c.Type {
	case models.CriteriaAnyMessage, models.CriteriaDistinctRecipients:
		return true, nil
	case models.CriteriaMatchIntent:
		return strings.EqualFold(ev.Intent, c.Value), nil
	case models.CriteriaMatchTone:
		return strings.EqualFold(ev.Tone, c.Value), nil
	case models.CriteriaMatchRecipient:
		return strings.EqualFold(ev.RecipientRelationship, c.Value), nil
	case models.CriteriaOther:
		// Tracked manually or by another subsystem; never auto-completed
		// by the message trigger.
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCriteria, c.Type)
	}
}
