package entities

type Coordinator struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Phone    string `json:"phone" yaml:"phone"`
	WhatsApp string `json:"whatsapp" yaml:"whatsapp"`
	Email    string `json:"email" yaml:"email"`
}

type Accommodation struct {
	Name           string `json:"name" yaml:"name"`
	Address        string `json:"address" yaml:"address"`
	Landmark       string `json:"landmark" yaml:"landmark"`
	WiFi           string `json:"wifi" yaml:"wifi"`
	RoomNumber     string `json:"room_number" yaml:"room_number"`
	CheckIn        string `json:"check_in" yaml:"check_in"`
	NearestMetro   string `json:"nearest_metro,omitempty" yaml:"nearest_metro,omitempty"`
	NearestBusStop string `json:"nearest_bus_stop,omitempty" yaml:"nearest_bus_stop,omitempty"`
}

// NearestTransit prefers the metro station and falls back to the bus stop.
func (a Accommodation) NearestTransit() string {
	if a.NearestMetro != "" {
		return a.NearestMetro
	}
	return a.NearestBusStop
}

type LocalTips struct {
	Currency  string `json:"currency" yaml:"currency"`
	Language  string `json:"language" yaml:"language"`
	Weather   string `json:"weather" yaml:"weather"`
	Transport string `json:"transport" yaml:"transport"`
}

type EmergencyInfo struct {
	LocalPolice string `json:"local_police" yaml:"local_police" validate:"required"`
	Ambulance   string `json:"ambulance" yaml:"ambulance" validate:"required"`
}

// Destination is immutable reference data for one program location.
type Destination struct {
	ID            string        `json:"id" yaml:"id" validate:"required"`
	Name          string        `json:"name" yaml:"name" validate:"required"`
	Coordinator   Coordinator   `json:"coordinator" yaml:"coordinator"`
	Accommodation Accommodation `json:"accommodation" yaml:"accommodation"`
	LocalTips     LocalTips     `json:"local_tips" yaml:"local_tips"`
	EmergencyInfo EmergencyInfo `json:"emergency_info" yaml:"emergency_info"`
}

// FAQ is a curated answer scoped to a destination.
type FAQ struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	DestinationID string   `json:"destination_id" yaml:"destination_id" validate:"required"`
	Question      string   `json:"question" yaml:"question"`
	Answer        string   `json:"answer" yaml:"answer" validate:"required"`
	Keywords      []string `json:"keywords" yaml:"keywords" validate:"min=1,dive,required"`
}
