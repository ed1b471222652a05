package redis

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "tablebook:v1"

func KeyAvailabilityGen(restaurantID uuid.UUID) string {
	return fmt.Sprintf("%s:restaurant:%s:availability:gen", ns, restaurantID)
}

// KeyAvailability addresses one cached availability answer. Bumping the restaurant's
// generation orphans every key built with the old one.
func KeyAvailability(restaurantID uuid.UUID, gen int64, start, end int64, party int) string {
	return fmt.Sprintf("%s:restaurant:%s:availability:%d:%d-%d:%d", ns, restaurantID, gen, start, end, party)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func KeyLock(name string) string {
	return fmt.Sprintf("%s:lock:%s", ns, name)
}

func KeyIdemReservation(idemKey string) string {
	return fmt.Sprintf("%s:idem:reservations:%s", ns, idemKey)
}

func ChannelReservationEvents() string {
	return ns + ":reservations:events"
}
