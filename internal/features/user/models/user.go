package models

import "time"

// Account is the durable record behind one Telegram user, keyed by their
// numeric Telegram ID. Created on first successful authentication.
type Account struct {
	TelegramUserID   int64     `json:"telegram_user_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Username         string    `json:"username"`
	Avatar           *string   `json:"avatar"`
	Wallets          string    `json:"wallets"`
	Balance          float64   `json:"balance"`
	TotalAdsWatched  int       `json:"total_ads_watched"`
	WeeklyAdsWatched int       `json:"weekly_ads_watched"`
	ReferralsCount   int       `json:"referrals_count"`
	ReferralsEarned  float64   `json:"referrals_earned"`
	HasBoost         bool      `json:"has_boost"`
	MiniBooster      int       `json:"mini_booster"`
	BasicBooster     int       `json:"basic_booster"`
	AdvancedBooster  int       `json:"advanced_booster"`
	ProBooster       int       `json:"pro_booster"`
	UltimateBooster  int       `json:"ultimate_booster"`
	MegaBooster      int       `json:"mega_booster"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BoosterCount returns the stored counter for the given booster.
func (a *Account) BoosterCount(b Booster) int {
	switch b {
	case BoosterMini:
		return a.MiniBooster
	case BoosterBasic:
		return a.BasicBooster
	case BoosterAdvanced:
		return a.AdvancedBooster
	case BoosterPro:
		return a.ProBooster
	case BoosterUltimate:
		return a.UltimateBooster
	case BoosterMega:
		return a.MegaBooster
	}
	return 0
}
