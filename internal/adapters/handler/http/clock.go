package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

// Clock turns request dates into instants in the user's timezone. Handlers
// never read time.Now directly, so tests can pin "today".
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Location: loc, Now: time.Now}
}

func (k Clock) today() time.Time {
	now := time.Now
	if k.Now != nil {
		now = k.Now
	}
	return now().In(k.location())
}

func (k Clock) location() *time.Location {
	if k.Location == nil {
		return time.Local
	}
	return k.Location
}

// parse reads a YYYY-MM-DD value; empty means today.
func (k Clock) parse(value string) (time.Time, error) {
	if value == "" {
		return k.today(), nil
	}
	day, err := domain.ParseDay(value)
	if err != nil {
		return time.Time{}, err
	}
	return day.In(k.location()), nil
}

func (k Clock) query(c *gin.Context, key string) (time.Time, error) {
	t, err := k.parse(c.Query(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}
