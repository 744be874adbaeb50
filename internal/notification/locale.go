package notification

import (
	"fmt"
	"strings"
)

// Text is the per-language message vocabulary.
type Text struct {
	Order            string
	OrderReady       string
	NewOrder         string
	OrderNumber      string
	OrderWillBeReady string
	And              string
	Hours            string
	Hour             string
	Minutes          string
	Minute           string
}

var texts = map[string]Text{
	"en": {
		Order:            "Order",
		OrderReady:       "Order ready!",
		NewOrder:         "New order",
		OrderNumber:      "Order number",
		OrderWillBeReady: "Order will be ready after about",
		And:              "and",
		Hours:            "hours",
		Hour:             "hour",
		Minutes:          "minutes",
		Minute:           "minute",
	},
	"ru": {
		Order:            "Заказ",
		OrderReady:       "Заказ готов!",
		NewOrder:         "Новый заказ",
		OrderNumber:      "Номер заказа",
		OrderWillBeReady: "Заказ будет готов примерно через",
		And:              "и",
		Hours:            "часа",
		Hour:             "час",
		Minutes:          "минут",
		Minute:           "минуту",
	},
	"lv": {
		Order:            "Pasūtījums",
		OrderReady:       "Pasūtījums gatavs!",
		NewOrder:         "Jauns pasūtījums",
		OrderNumber:      "Pasūtījuma numurs",
		OrderWillBeReady: "Pasūtījums būs gatavs apmēram pēc",
		And:              "un",
		Hours:            "stundām",
		Hour:             "stundas",
		Minutes:          "minūtēm",
		Minute:           "minūtes",
	},
}

// Localize returns the vocabulary for a language, falling back to English.
func Localize(language string) Text {
	if t, ok := texts[strings.ToLower(language)]; ok {
		return t
	}
	return texts["en"]
}

// ETAMessage composes the readiness-time sentence for one locale, picking
// singular or plural unit words and joining hours and minutes with the
// locale's conjunction: "Order will be ready after about 1 hour and
// 5 minutes".
func ETAMessage(language string, hours, minutes int) string {
	text := Localize(language)
	msg := text.OrderWillBeReady
	if hours > 0 {
		unit := text.Hour
		if hours > 1 {
			unit = text.Hours
		}
		msg = fmt.Sprintf("%s %d %s", msg, hours, unit)
	}
	if minutes > 0 {
		unit := text.Minute
		if minutes > 1 {
			unit = text.Minutes
		}
		if hours > 0 {
			msg = fmt.Sprintf("%s %s %d %s", msg, text.And, minutes, unit)
		} else {
			msg = fmt.Sprintf("%s %d %s", msg, minutes, unit)
		}
	}
	return msg
}
