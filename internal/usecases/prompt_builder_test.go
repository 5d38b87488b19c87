package usecases

import (
	"strings"
	"testing"

	"intern_assistant/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestBuildContext_ContainsAllDestinationFields(t *testing.T) {
	dest := goaDestination()
	dest.Accommodation.NearestMetro = "Panaji Metro"
	intern := entities.Intern{Phone: "+1111", Name: "Ana", DestinationID: "goa"}

	out := BuildContext(intern, dest)

	fields := []string{
		dest.Name, intern.Name,
		dest.Coordinator.Name, dest.Coordinator.Phone, dest.Coordinator.WhatsApp, dest.Coordinator.Email,
		dest.Accommodation.Name, dest.Accommodation.Address, dest.Accommodation.Landmark,
		dest.Accommodation.WiFi, dest.Accommodation.RoomNumber, dest.Accommodation.CheckIn,
		dest.Accommodation.NearestMetro, dest.Accommodation.NearestBusStop,
		dest.LocalTips.Currency, dest.LocalTips.Language, dest.LocalTips.Weather, dest.LocalTips.Transport,
		dest.EmergencyInfo.LocalPolice, dest.EmergencyInfo.Ambulance,
	}
	for _, f := range fields {
		assert.Contains(t, out, f)
	}
	assert.Contains(t, out, "Be warm and welcoming")
	assert.Contains(t, out, "under 150 words")
}

func TestBuildContext_TransitFallsBackToBusStop(t *testing.T) {
	dest := goaDestination()
	out := BuildContext(entities.Intern{Name: "Ana"}, dest)
	assert.Contains(t, out, "- Nearest Metro/Station: Kadamba Bus Stand\n")
	assert.NotContains(t, out, "Nearest Bus Stop")

	dest.Accommodation.NearestMetro = "Panaji Metro"
	out = BuildContext(entities.Intern{Name: "Ana"}, dest)
	assert.Contains(t, out, "- Nearest Metro/Station: Panaji Metro\n")
}

func TestBuildContext_Deterministic(t *testing.T) {
	intern := entities.Intern{Name: "Ana"}
	assert.Equal(t, BuildContext(intern, goaDestination()), BuildContext(intern, goaDestination()))
}

func TestBuildFallback(t *testing.T) {
	dest := goaDestination()
	out := BuildFallback(dest)

	assert.Contains(t, out, "Priya Nair")
	assert.Contains(t, out, "+91 98200 22222")
	assert.Contains(t, out, "100 (Police)")
	assert.Contains(t, out, "108 (Ambulance)")

	dest.Coordinator.WhatsApp = ""
	assert.Contains(t, BuildFallback(dest), "+91 98200 11111")
}

func TestBuildWelcome(t *testing.T) {
	intern := entities.Intern{Name: "Ana", StartDate: "2024-06-01"}
	out := BuildWelcome(intern, goaDestination())

	assert.True(t, strings.HasPrefix(out, "🎉 *Welcome to your Goa, India Internship!*"))
	assert.Contains(t, out, "Hi Ana!")
	assert.Contains(t, out, "WiFi Password: goa-sunset-42")
	assert.Contains(t, out, "Check-in: 2024-06-01")
}
