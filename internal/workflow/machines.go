// Package workflow defines the fixed status progressions for media projects,
// tasks, transactions, and spaces.
//
// All functions are pure and deterministic; emitting notifications and
// checking capabilities is the calling service's responsibility.
package workflow

import (
	"fmt"

	"github.com/example/wdh-os/internal/domain"
)

// InvalidTransitionError reports an attempted status change the machine does
// not permit.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	if e == nil {
		return ""
	}
	if e.To == "" {
		return fmt.Sprintf("workflow: %s cannot advance from %s", e.Entity, e.From)
	}
	return fmt.Sprintf("workflow: %s cannot move from %s to %s", e.Entity, e.From, e.To)
}

// projectOrder is the strict linear pipeline; advancement is always by
// exactly one step and completed is terminal.
var projectOrder = []domain.ProjectStatus{
	domain.ProjectBriefing,
	domain.ProjectQuote,
	domain.ProjectProduction,
	domain.ProjectReview,
	domain.ProjectDelivery,
	domain.ProjectCompleted,
}

var projectProgress = map[domain.ProjectStatus]int{
	domain.ProjectBriefing:   10,
	domain.ProjectQuote:      20,
	domain.ProjectProduction: 50,
	domain.ProjectReview:     75,
	domain.ProjectDelivery:   90,
	domain.ProjectCompleted:  100,
}

// NextProjectStatus returns the status one step ahead of current. Advancing a
// completed project, or one with an unknown status, is an invalid transition.
func NextProjectStatus(current domain.ProjectStatus) (domain.ProjectStatus, error) {
	for i, status := range projectOrder {
		if status != current {
			continue
		}
		if i == len(projectOrder)-1 {
			return "", &InvalidTransitionError{Entity: "project", From: string(current)}
		}
		return projectOrder[i+1], nil
	}
	return "", &InvalidTransitionError{Entity: "project", From: string(current)}
}

// ProjectProgress returns the fixed progress percentage for a status, or 0
// for an unknown status.
func ProjectProgress(status domain.ProjectStatus) int {
	return projectProgress[status]
}

// ProjectStatuses returns the pipeline in order.
func ProjectStatuses() []domain.ProjectStatus {
	out := make([]domain.ProjectStatus, len(projectOrder))
	copy(out, projectOrder)
	return out
}

// taskRing is cyclic: completed wraps back to pending. Unlike the project
// pipeline there is no terminal state.
var taskRing = []domain.TaskStatus{
	domain.TaskPending,
	domain.TaskInProgress,
	domain.TaskCompleted,
}

// NextTaskStatus returns the next status on the ring. Unknown statuses reset
// to pending so the ring stays total.
func NextTaskStatus(current domain.TaskStatus) domain.TaskStatus {
	for i, status := range taskRing {
		if status == current {
			return taskRing[(i+1)%len(taskRing)]
		}
	}
	return domain.TaskPending
}

// InitialTransactionStatus branches on type at creation: income entries are
// created completed and never enter the approval flow; expenses start pending.
func InitialTransactionStatus(txType domain.TransactionType) domain.TransactionStatus {
	if txType == domain.TransactionIncome {
		return domain.TransactionCompleted
	}
	return domain.TransactionPending
}

// CanApproveTransaction reports whether approval is permitted from the given
// status. Only pending expenses may be approved.
func CanApproveTransaction(from domain.TransactionStatus) bool {
	return from == domain.TransactionPending
}

// CanRejectTransaction reports whether rejection (deletion) is permitted.
// Rejection shares the approval gate: only pending entries qualify.
func CanRejectTransaction(from domain.TransactionStatus) bool {
	return from == domain.TransactionPending
}

// spaceTransitions captures the occupancy graph: available flips to
// reserved/occupied and back, any state may enter maintenance, and
// maintenance only releases back to available.
var spaceTransitions = map[domain.SpaceStatus][]domain.SpaceStatus{
	domain.SpaceAvailable:   {domain.SpaceReserved, domain.SpaceOccupied, domain.SpaceMaintenance},
	domain.SpaceReserved:    {domain.SpaceAvailable, domain.SpaceOccupied, domain.SpaceMaintenance},
	domain.SpaceOccupied:    {domain.SpaceAvailable, domain.SpaceReserved, domain.SpaceMaintenance},
	domain.SpaceMaintenance: {domain.SpaceAvailable},
}

// CanTransitionSpace reports whether a space may move between the two
// statuses. Self transitions are rejected.
func CanTransitionSpace(from, to domain.SpaceStatus) bool {
	for _, allowed := range spaceTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SpaceTransition validates a space status change, returning an
// InvalidTransitionError when the occupancy graph forbids it.
func SpaceTransition(from, to domain.SpaceStatus) error {
	if CanTransitionSpace(from, to) {
		return nil
	}
	return &InvalidTransitionError{Entity: "space", From: string(from), To: string(to)}
}
