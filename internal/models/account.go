package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ACCOUNT_STATUS_ACTIVE   = "active"
	ACCOUNT_STATUS_COOLDOWN = "cooldown"
	ACCOUNT_STATUS_BANNED   = "banned"
	ACCOUNT_STATUS_ERROR    = "error"
)

const (
	FAILURE_RATE_LIMITED = "rateLimited"
	FAILURE_BANNED       = "banned"
	FAILURE_TRANSIENT    = "transient"
)

// BoostAccount is one automation-capable account in a user's pool. Health and
// counters are mutated only through the pool service, never by handlers.
type BoostAccount struct {
	bun.BaseModel `bun:"table:boost_account"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID        string     `bun:"user_id" json:"user_id"`
	Handle        string     `bun:"handle" json:"handle"`
	CredentialRef string     `bun:"credential_ref" json:"-"`
	SessionToken  string     `bun:"session_token" json:"-"`
	Status        string     `bun:"status,default:'active'" json:"status"`
	DailyLimit    int        `bun:"daily_limit,default:25" json:"daily_limit"`
	ActionsToday  int        `bun:"actions_today,default:0" json:"actions_today"`
	TotalActions  int        `bun:"total_actions,default:0" json:"total_actions"`
	LastActionAt  *time.Time `bun:"last_action_at" json:"last_action_at"`
	CooldownUntil *time.Time `bun:"cooldown_until" json:"cooldown_until"`
	// CooldownStrikes doubles the next cooldown on each consecutive rate
	// limit; a success resets it.
	CooldownStrikes int       `bun:"cooldown_strikes,default:0" json:"-"`
	FailStreak      int       `bun:"fail_streak,default:0" json:"-"`
	LastResetDate   time.Time `bun:"last_reset_date,default:current_timestamp" json:"last_reset_date"`
	CreatedAt       time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// Available reports whether the account may perform one more action right now.
// Expired cooldowns count as available; the recovery sweep flips the status
// back lazily.
func (account *BoostAccount) Available(now time.Time) bool {
	switch account.Status {
	case ACCOUNT_STATUS_BANNED, ACCOUNT_STATUS_ERROR:
		return false
	case ACCOUNT_STATUS_COOLDOWN:
		if account.CooldownUntil != nil && account.CooldownUntil.After(now) {
			return false
		}
	}
	return account.ActionsToday < account.DailyLimit
}
