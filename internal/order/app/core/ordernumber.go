package core

import (
	"fmt"
	"math/rand"
)

// Order numbers are 5-digit zero-padded decimals drawn uniformly at random
// and probed for collisions per location. The retry budget bounds the loop;
// at realistic volumes a handful of attempts suffices, and the unique index
// on (location_id, order_number) backstops concurrent submissions.
const (
	OrderNumberDigits = 5
	MaxAllocAttempts  = 300
)

// RandomOrderNumber draws one candidate in ["00000", "99999"].
func RandomOrderNumber() string {
	return fmt.Sprintf("%05d", rand.Intn(100000))
}
