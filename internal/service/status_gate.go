package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/storeops/opsdash-api/internal/models"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

var allowedTransitions = map[models.ApprovalKind][]string{
	models.ApprovalKindCleaning:   {models.StatusApproved, models.StatusRejected},
	models.ApprovalKindProduction: {models.StatusApproved, models.StatusRejected},
	models.ApprovalKindTheft:      {models.StatusReviewed, models.StatusPending, models.StatusClosed},
}

// approverSlots is the number of independent approver columns per kind.
var approverSlots = map[models.ApprovalKind]int{
	models.ApprovalKindCleaning:   2,
	models.ApprovalKindProduction: 3,
	models.ApprovalKindTheft:      0,
}

// Transition records what a status change did.
type Transition struct {
	Kind  models.ApprovalKind `json:"kind"`
	ID    int64               `json:"id"`
	From  string              `json:"from"`
	To    string              `json:"to"`
	Actor string              `json:"actor"`
	Notes *string             `json:"notes,omitempty"`
	At    time.Time           `json:"at"`
}

// StatusGate validates target statuses per taxonomy and applies them.
//
// The current status is not checked: a decided request can be decided again
// and the last writer wins. Every approver slot receives the target status.
type StatusGate struct{}

// NewStatusGate constructs a StatusGate.
func NewStatusGate() *StatusGate {
	return &StatusGate{}
}

// Allowed returns the statuses accepted for kind.
func (g *StatusGate) Allowed(kind models.ApprovalKind) []string {
	return append([]string(nil), allowedTransitions[kind]...)
}

// Normalize matches status case-insensitively against the kind's taxonomy and
// returns the canonical spelling.
func (g *StatusGate) Normalize(kind models.ApprovalKind, status string) (string, error) {
	allowed, ok := allowedTransitions[kind]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown request type %q", kind))
	}
	status = strings.TrimSpace(status)
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, status) {
			return candidate, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrInvalidStatus,
		fmt.Sprintf("status %q not allowed for %s; expected one of %s", status, kind, strings.Join(allowed, ", ")))
}

// Apply mutates req in place and describes the transition. Notes are only
// kept for theft incidents.
func (g *StatusGate) Apply(req *models.ApprovalRequest, status, actor string, notes *string, now time.Time) (*Transition, error) {
	if req == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	target, err := g.Normalize(req.Kind, status)
	if err != nil {
		return nil, err
	}

	transition := &Transition{
		Kind:  req.Kind,
		ID:    req.ID,
		From:  req.Status,
		To:    target,
		Actor: actor,
		At:    now,
	}

	req.Status = target
	slots := []**string{&req.Approver1Status, &req.Approver2Status, &req.Approver3Status}
	for i := 0; i < approverSlots[req.Kind] && i < len(slots); i++ {
		value := target
		*slots[i] = &value
	}
	req.UpdatedAt = &now
	req.ReviewedAt = &now
	if actor != "" {
		req.ReviewedBy = &actor
	}
	if req.Kind == models.ApprovalKindTheft && notes != nil {
		verbatim := *notes
		req.ReviewNotes = &verbatim
		transition.Notes = &verbatim
	}
	return transition, nil
}
