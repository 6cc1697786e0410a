package models

import (
	usermodels "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/models"
)

// Item is a purchasable catalog entry paid for with Telegram Stars.
type Item struct {
	ID          string `json:"item_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Currency    string `json:"currency"`

	// Booster is set for passive-income boosters; AdBoost marks the
	// one-shot ad reward multiplier. Exactly one of the two is used.
	Booster usermodels.Booster `json:"-"`
	AdBoost bool               `json:"-"`
}

const AdBoostItemID = "ad_boost"

// Catalog lists everything the shop sells. Prices are in XTR (Stars).
var Catalog = map[string]Item{
	AdBoostItemID: {
		ID:          AdBoostItemID,
		Title:       "Ad Boost",
		Description: "Increase your ad earnings from 0.01 to 0.03 USDT per view",
		Price:       1,
		Currency:    "XTR",
		AdBoost:     true,
	},
	string(usermodels.BoosterMini): {
		ID:          string(usermodels.BoosterMini),
		Title:       "Mini Booster",
		Description: "Generates 0.0001 USDT per hour",
		Price:       1,
		Currency:    "XTR",
		Booster:     usermodels.BoosterMini,
	},
	string(usermodels.BoosterBasic): {
		ID:          string(usermodels.BoosterBasic),
		Title:       "Basic Booster",
		Description: "Generates 0.0005 USDT per hour",
		Price:       1,
		Currency:    "XTR",
		Booster:     usermodels.BoosterBasic,
	},
	string(usermodels.BoosterAdvanced): {
		ID:          string(usermodels.BoosterAdvanced),
		Title:       "Advanced Booster",
		Description: "Generates 0.001 USDT per hour",
		Price:       1,
		Currency:    "XTR",
		Booster:     usermodels.BoosterAdvanced,
	},
	string(usermodels.BoosterPro): {
		ID:          string(usermodels.BoosterPro),
		Title:       "Pro Booster",
		Description: "Generates 0.005 USDT per hour",
		Price:       1,
		Currency:    "XTR",
		Booster:     usermodels.BoosterPro,
	},
	string(usermodels.BoosterUltimate): {
		ID:          string(usermodels.BoosterUltimate),
		Title:       "Ultimate Booster",
		Description: "Generates 0.01 USDT per hour",
		Price:       1,
		Currency:    "XTR",
		Booster:     usermodels.BoosterUltimate,
	},
	string(usermodels.BoosterMega): {
		ID:          string(usermodels.BoosterMega),
		Title:       "Mega Booster",
		Description: "Generates 0.05 USDT per hour",
		Price:       1,
		Currency:    "XTR",
		Booster:     usermodels.BoosterMega,
	},
}
