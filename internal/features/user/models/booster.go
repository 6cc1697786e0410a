package models

import (
	"errors"
	"fmt"
)

// Booster is a purchasable passive-income multiplier. Boosters are
// incrementing counters; the one-shot ad boost flag is tracked separately
// on Account.HasBoost.
type Booster string

const (
	BoosterMini     Booster = "mini_booster"
	BoosterBasic    Booster = "basic_booster"
	BoosterAdvanced Booster = "advanced_booster"
	BoosterPro      Booster = "pro_booster"
	BoosterUltimate Booster = "ultimate_booster"
	BoosterMega     Booster = "mega_booster"
)

var ErrUnknownBooster = errors.New("unknown booster type")

// Column returns the users-table column backing the booster counter. The
// value set is closed, so it can be interpolated into SQL safely.
func (b Booster) Column() string { return string(b) }

func ParseBooster(s string) (Booster, error) {
	switch Booster(s) {
	case BoosterMini, BoosterBasic, BoosterAdvanced, BoosterPro, BoosterUltimate, BoosterMega:
		return Booster(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBooster, s)
}
