package timezone

import (
	"expo/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	mu          sync.RWMutex
	appLocation = time.UTC
)

func init() {
	SetLocation(Load(config.Get().App.Timezone))
}

// Load resolves an IANA zone name, falling back to UTC when it is empty or unknown.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}

	mu.Lock()
	appLocation = loc
	mu.Unlock()
}

func GetLocation() *time.Location {
	mu.RLock()
	defer mu.RUnlock()

	return appLocation
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Format renders t in the application zone.
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
