package usecases

import (
	"context"

	"intern_assistant/internal/entities"

	"github.com/stretchr/testify/mock"
)

// memDirectory is an in-memory interfaces.Directory for tests.
type memDirectory struct {
	interns      []entities.Intern
	destinations map[string]entities.Destination
	faqs         []entities.FAQ
	panicOnFAQs  bool
}

func (d *memDirectory) FindInternByPhone(phone string) (entities.Intern, bool) {
	for _, i := range d.interns {
		if i.Phone == entities.NormalizePhone(phone) {
			return i, true
		}
	}
	return entities.Intern{}, false
}

func (d *memDirectory) FindDestination(id string) (entities.Destination, bool) {
	dest, ok := d.destinations[id]
	return dest, ok
}

// FindFAQs deliberately returns every FAQ so the matcher's own destination
// filter is exercised.
func (d *memDirectory) FindFAQs(string) []entities.FAQ {
	if d.panicOnFAQs {
		panic("faq table corrupted")
	}
	return d.faqs
}

func (d *memDirectory) Interns() []entities.Intern { return d.interns }

func (d *memDirectory) Reload(context.Context) error { return nil }

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, recipient, body string) (entities.DeliveryReceipt, error) {
	args := m.Called(ctx, recipient, body)
	return args.Get(0).(entities.DeliveryReceipt), args.Error(1)
}

type MockCompletion struct {
	mock.Mock
}

func (m *MockCompletion) Complete(ctx context.Context, promptContext, userMessage string) (string, error) {
	args := m.Called(ctx, promptContext, userMessage)
	return args.String(0), args.Error(1)
}

func goaDestination() entities.Destination {
	return entities.Destination{
		ID:   "goa",
		Name: "Goa, India",
		Coordinator: entities.Coordinator{
			Name:     "Priya Nair",
			Phone:    "+91 98200 11111",
			WhatsApp: "+91 98200 22222",
			Email:    "priya@example.org",
		},
		Accommodation: entities.Accommodation{
			Name:           "Casa Panjim",
			Address:        "12 Rua de Ourem, Panaji",
			Landmark:       "Opposite the Church Square",
			WiFi:           "goa-sunset-42",
			RoomNumber:     "B-204",
			CheckIn:        "2024-06-01",
			NearestBusStop: "Kadamba Bus Stand",
		},
		LocalTips: entities.LocalTips{
			Currency:  "INR",
			Language:  "Konkani, English",
			Weather:   "Hot and humid",
			Transport: "Scooters and buses",
		},
		EmergencyInfo: entities.EmergencyInfo{
			LocalPolice: "100",
			Ambulance:   "108",
		},
	}
}

func seededDirectory() *memDirectory {
	return &memDirectory{
		interns: []entities.Intern{
			{Phone: "+1111", Name: "Ana", DestinationID: "goa", StartDate: "2024-06-01"},
			{Phone: "+2222", Name: "Ben", DestinationID: "atlantis"},
		},
		destinations: map[string]entities.Destination{"goa": goaDestination()},
		faqs: []entities.FAQ{
			{ID: "faq-airport", DestinationID: "goa", Answer: "Take the X12 bus.", Keywords: []string{"airport", "transport"}},
			{ID: "faq-wifi", DestinationID: "goa", Answer: "The password is on the fridge.", Keywords: []string{"wifi"}},
		},
	}
}
