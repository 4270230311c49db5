package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInsufficientCredits = errors.New("insufficient credits")
var ErrAuthenticationFailed = errors.New("authentication failed")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrNoEligibleAccounts = errors.New("no eligible accounts")
var ErrUserCreditLock = errors.New("user credits locked")
var ErrAccountPoolLock = errors.New("account pool locked")
var ErrCampaignLock = errors.New("campaign locked")
var ErrBoostLock = errors.New("boost dispatch locked")

const (
	CONFIG_SERVER_MODE             = "SERVER_MODE"
	CONFIG_RULE_WINDOW_DAYS        = "RULE_WINDOW_DAYS"
	CONFIG_DEFAULT_DAILY_LIMIT     = "DEFAULT_DAILY_LIMIT"
	CONFIG_CRONJOB_TIME_BOOST      = "CRONJOB_TIME_BOOST"
	CONFIG_CRONJOB_TIME_CAMPAIGN   = "CRONJOB_TIME_CAMPAIGN"
	CONFIG_CRONJOB_TIME_METRICS    = "CRONJOB_TIME_METRICS"
	CONFIG_CAMPAIGN_SYNC_BATCH     = "CAMPAIGN_SYNC_BATCH"
	CONFIG_TEXT_BOOST_COMPLETED    = "TEXT_BOOST_COMPLETED"
	CONFIG_TEXT_ACCOUNT_BANNED     = "TEXT_ACCOUNT_BANNED"
	CONFIG_REAL_BOOST_RATE_PER_MIN = "REAL_BOOST_RATE_PER_MIN"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	RULE_WINDOW_DEFAULT_DAYS   = 7
	DEFAULT_DAILY_ACTION_LIMIT = 25
	CAMPAIGN_SYNC_BATCH_LIMIT  = 50
	TRANSACTION_PAGE_LIMIT     = 50

	INTENSITY_LOW_MIN    = 10
	INTENSITY_LOW_MAX    = 20
	INTENSITY_MEDIUM_MIN = 30
	INTENSITY_MEDIUM_MAX = 50
	INTENSITY_HIGH_MIN   = 100
	INTENSITY_HIGH_MAX   = 150

	ACTION_DELAY_MIN = 5 * time.Second
	ACTION_DELAY_MAX = 12 * time.Second

	// extended from the dispatch loop between actions; generously above the
	// worst-case single action delay
	DISPATCH_LOCK_TTL = 60 * time.Second

	COOLDOWN_BASE     = 4 * time.Hour
	COOLDOWN_CAP      = 48 * time.Hour
	FAIL_STREAK_LIMIT = 3

	CAMPAIGN_MIN_DAILY_BUDGET = 5.0
	CAMPAIGN_MAX_DAILY_BUDGET = 500.0
	CAMPAIGN_MIN_DURATION     = 1
	CAMPAIGN_MAX_DURATION     = 30

	VIRAL_WEIGHT_LIKE    = 1.0
	VIRAL_WEIGHT_COMMENT = 2.0
	VIRAL_WEIGHT_SHARE   = 3.0

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute
	CACHE_TTL_15_MINS   = 15 * time.Minute
	CACHE_TTL_1_HOUR    = 1 * time.Hour

	REAL_BOOST_DEFAULT_RATE_PER_MIN = 6
)

func LockKeyUserCredits(userID string) string {
	return fmt.Sprintf("lock:user-credits:%s", userID)
}

func LockKeyAccountPool(userID string) string {
	return fmt.Sprintf("lock:account-pool:%s", userID)
}

func LockKeyCampaign(campaignID int64) string {
	return fmt.Sprintf("lock:campaign:%d", campaignID)
}

func LockKeyBoostDispatch(userID string, postID string) string {
	return fmt.Sprintf("lock:boost-dispatch:%s:%s", userID, postID)
}

// db
func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyUserBalance(userID string) string {
	return fmt.Sprintf("user_credits:%s:balance", userID)
}

func DBKeyCreditPackages() string {
	return "credit_packages:active"
}

func DBKeyBoostConfig(userID string) string {
	return fmt.Sprintf("boost_config:%s", userID)
}

func DBKeyViralScore(postID string) string {
	return fmt.Sprintf("viral_score:%s", postID)
}

func DBKeyCampaign(userID string, campaignID int64) string {
	return fmt.Sprintf("campaign:%s:%d", userID, campaignID)
}

func LimitKeyAccountActions(accountID int64) string {
	return fmt.Sprintf("limit:account-actions:%d", accountID)
}
