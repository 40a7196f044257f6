package data

import (
	"context"
	"database/sql"
	"time"
)

const queryTimeout = 3 * time.Second

type DateRange struct {
	AfterDate  *time.Time `json:"after_date,omitempty"`
	BeforeDate *time.Time `json:"before_date,omitempty"`
}

func (dr DateRange) IsEmpty() bool {
	return dr.AfterDate == nil && dr.BeforeDate == nil
}

func (dr DateRange) IsFull() bool {
	return dr.AfterDate != nil && dr.BeforeDate != nil
}

// parsePlayerAsgList splits a team's player id list into ids to assign and ids
// to unassign. A negative id marks an unassignment; zero is ignored.
func parsePlayerAsgList(team *Team) (assign []int64, unassign []int64) {
	assign = make([]int64, 0)
	unassign = make([]int64, 0)
	for _, id := range team.PlayerIDs {
		switch {
		case id > 0:
			assign = append(assign, id)
		case id < 0:
			unassign = append(unassign, -id)
		}
	}
	return assign, unassign
}

// rollback aborts tx and returns err, or the rollback failure when there is one.
func rollback(tx *sql.Tx, err error) error {
	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		return rollbackErr
	}
	return err
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}
