package services

import (
	"regexp"
	"strconv"
	"strings"

	"dely-backend/internal/order/app/core"
	"dely-backend/internal/order/domain/dto"
	"dely-backend/pkg/money"
)

// Optional leading +, then digits only.
var phoneRe = regexp.MustCompile(`^\+?[0-9]+$`)

const (
	MethodDelivery = "delivery"
	MethodInPlace  = "inPlace"
	MethodTakeAway = "takeAway"
)

func validDeliveryMethod(m string) bool {
	switch m {
	case MethodDelivery, MethodInPlace, MethodTakeAway:
		return true
	}
	return false
}

// validateContact checks the delivery-method-specific contact fields and
// collects every problem found.
func validateContact(d dto.DeliveryMethodDetails) []core.FieldError {
	var fields []core.FieldError

	if !validDeliveryMethod(d.DeliveryMethod) {
		fields = append(fields, core.FieldError{Value: d.DeliveryMethod, Param: "deliveryMethod", Msg: core.MsgInvalidValue})
	}

	if d.PhoneNumber == "" {
		fields = append(fields, core.FieldError{Param: "phoneNumber", Msg: core.MsgEmptyValue})
	} else if !phoneRe.MatchString(d.PhoneNumber) {
		fields = append(fields, core.FieldError{Value: d.PhoneNumber, Param: "phoneNumber", Msg: core.MsgInvalidValue})
	}

	if d.DeliveryMethod == MethodDelivery && d.Address == "" {
		fields = append(fields, core.FieldError{Param: "address", Msg: core.MsgEmptyValue})
	}

	return fields
}

// validateCart parses every price into exact decimals. The cart total is
// computed from the parsed lines; rounding happens once when rendered.
func validateCart(items []dto.CartItem, deliveryPrice string) (lines []money.Line, delivery money.Amount, fields []core.FieldError) {
	for _, item := range items {
		price, err := money.Parse(item.Price)
		if err != nil {
			fields = append(fields, core.FieldError{Value: item.Price, Param: "shoppingCartItems", Msg: core.MsgInvalidValue})
			continue
		}
		if item.Count < 1 {
			fields = append(fields, core.FieldError{Value: strconv.Itoa(item.Count), Param: "shoppingCartItems", Msg: core.MsgInvalidValue})
			continue
		}
		lines = append(lines, money.Line{Price: price, Count: item.Count})
	}

	delivery, err := money.Parse(deliveryPrice)
	if err != nil {
		fields = append(fields, core.FieldError{Value: deliveryPrice, Param: "deliveryPrice", Msg: core.MsgInvalidValue})
	}

	return lines, delivery, fields
}

// validateETA checks an hours/minutes pair. Both parts must be present if
// either is, minutes are 0-59, the pair must not be all zero, and hours are
// non-negative but otherwise unbounded.
func validateETA(hours, minutes string) (h, m int, fields []core.FieldError) {
	hours = strings.TrimSpace(hours)
	minutes = strings.TrimSpace(minutes)

	invalid := func() (int, int, []core.FieldError) {
		return 0, 0, []core.FieldError{{Param: "time", Msg: core.MsgInvalidValue}}
	}

	if hours == "" && minutes == "" {
		return 0, 0, []core.FieldError{{Param: "time", Msg: core.MsgEmptyValue}}
	}
	if hours == "" || minutes == "" {
		return invalid()
	}
	if len(minutes) > 2 {
		return invalid()
	}

	h, errH := strconv.Atoi(hours)
	m, errM := strconv.Atoi(minutes)
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 {
		return invalid()
	}
	if h == 0 && m == 0 {
		return invalid()
	}
	return h, m, nil
}
