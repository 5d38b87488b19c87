package usecases

import (
	"fmt"
	"strings"

	"intern_assistant/internal/entities"
)

var helpTopics = []string{
	"Shopping and groceries",
	"Transportation and getting around",
	"Emergency contacts and procedures",
	"Local customs and cultural tips",
	"Accommodation and facilities",
	"Places to visit and things to do",
}

var assistantInstructions = []string{
	"Be warm and welcoming",
	"Always mention the coordinator's contact for complex issues",
	"Give practical, actionable advice",
	"Keep responses concise but complete (under 150 words)",
	"If you are not sure, tell the intern to contact the coordinator",
}

// BuildContext renders the context block sent to the completion provider.
func BuildContext(intern entities.Intern, destination entities.Destination) string {
	acc := destination.Accommodation
	tips := destination.LocalTips

	var sb strings.Builder
	sb.WriteString("You are a helpful, friendly assistant for interns on a work program.\n\n")
	sb.WriteString(fmt.Sprintf("DESTINATION: %s\n", destination.Name))
	sb.WriteString(fmt.Sprintf("INTERN NAME: %s\n", intern.Name))
	sb.WriteString(fmt.Sprintf("COORDINATOR: %s (%s)\n", destination.Coordinator.Name, destination.Coordinator.Phone))
	if coord := destination.Coordinator; coord.WhatsApp != "" || coord.Email != "" {
		sb.WriteString(fmt.Sprintf("COORDINATOR CONTACT: WhatsApp %s, Email %s\n", coord.WhatsApp, coord.Email))
	}
	sb.WriteString(fmt.Sprintf("ACCOMMODATION: %s\n", acc.Name))
	sb.WriteString(fmt.Sprintf("ADDRESS: %s\n", acc.Address))
	sb.WriteString(fmt.Sprintf("LANDMARK: %s\n\n", acc.Landmark))

	sb.WriteString("LOCAL INFORMATION:\n")
	sb.WriteString(fmt.Sprintf("- Currency: %s\n", tips.Currency))
	sb.WriteString(fmt.Sprintf("- Emergency Numbers: %s (Police), %s (Ambulance)\n",
		destination.EmergencyInfo.LocalPolice, destination.EmergencyInfo.Ambulance))
	sb.WriteString(fmt.Sprintf("- Language: %s\n", tips.Language))
	sb.WriteString(fmt.Sprintf("- Weather: %s\n", tips.Weather))
	sb.WriteString(fmt.Sprintf("- Transport: %s\n", tips.Transport))
	sb.WriteString(fmt.Sprintf("- Nearest Metro/Station: %s\n", acc.NearestTransit()))
	if acc.NearestMetro != "" && acc.NearestBusStop != "" {
		sb.WriteString(fmt.Sprintf("- Nearest Bus Stop: %s\n", acc.NearestBusStop))
	}
	sb.WriteString("\n")

	sb.WriteString("ACCOMMODATION DETAILS:\n")
	sb.WriteString(fmt.Sprintf("- WiFi Password: %s\n", acc.WiFi))
	sb.WriteString(fmt.Sprintf("- Room: %s\n", acc.RoomNumber))
	sb.WriteString(fmt.Sprintf("- Check-in Date: %s\n\n", acc.CheckIn))

	sb.WriteString("You help with practical questions about:\n")
	for _, topic := range helpTopics {
		sb.WriteString("- " + topic + "\n")
	}

	sb.WriteString("\nIMPORTANT:\n")
	for i, rule := range assistantInstructions {
		sb.WriteString("- " + rule)
		if i < len(assistantInstructions)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// BuildFallback is the reply used whenever the completion provider cannot
// answer. It has to be useful on its own, so it carries the coordinator
// contact and both emergency numbers.
func BuildFallback(destination entities.Destination) string {
	contact := destination.Coordinator.WhatsApp
	if contact == "" {
		contact = destination.Coordinator.Phone
	}
	return fmt.Sprintf("I'm sorry, I'm having trouble answering that right now.\n\n"+
		"Please contact your coordinator %s at %s for assistance.\n\n"+
		"For emergencies, call %s (Police) or %s (Ambulance).",
		destination.Coordinator.Name, contact,
		destination.EmergencyInfo.LocalPolice, destination.EmergencyInfo.Ambulance)
}

// BuildWelcome renders the onboarding message sent by the welcome broadcast.
func BuildWelcome(intern entities.Intern, destination entities.Destination) string {
	acc := destination.Accommodation
	coord := destination.Coordinator
	const rule = "━━━━━━━━━━━━━━━━━━━━━"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎉 *Welcome to your %s Internship!*\n\n", destination.Name))
	sb.WriteString(fmt.Sprintf("Hi %s!\n\n", intern.Name))
	sb.WriteString("I'm your digital assistant here to help you throughout your stay. Feel free to ask me anything about:\n")
	sb.WriteString("• 🏠 Accommodation & WiFi\n• 🛒 Shopping & daily needs\n• 🚗 Transportation & getting around\n")
	sb.WriteString("• 🍽️ Food & restaurants\n• 🏥 Emergency contacts\n• 🗺️ Places to visit\n• 💡 Local tips & customs\n\n")
	sb.WriteString(rule + "\n\n")

	sb.WriteString("📍 *YOUR COORDINATOR*\n")
	sb.WriteString(fmt.Sprintf("Name: %s\nWhatsApp: %s\nEmail: %s\n\n", coord.Name, coord.WhatsApp, coord.Email))

	sb.WriteString("🏠 *YOUR ACCOMMODATION*\n")
	sb.WriteString(acc.Name + "\n")
	sb.WriteString(fmt.Sprintf("📍 Address: %s\n", acc.Address))
	sb.WriteString(fmt.Sprintf("🎯 Landmark: %s\n", acc.Landmark))
	sb.WriteString(fmt.Sprintf("🔢 Room: %s\n", acc.RoomNumber))
	sb.WriteString(fmt.Sprintf("📶 WiFi Password: %s\n", acc.WiFi))
	sb.WriteString(fmt.Sprintf("🗓️ Check-in: %s\n\n", intern.StartDate))
	sb.WriteString(rule + "\n\n")

	sb.WriteString("💡 *QUICK INFO*\n")
	sb.WriteString(fmt.Sprintf("• Emergency: %s (Police), %s (Ambulance)\n",
		destination.EmergencyInfo.LocalPolice, destination.EmergencyInfo.Ambulance))
	sb.WriteString(fmt.Sprintf("• Nearest Metro/Station: %s\n", acc.NearestTransit()))
	sb.WriteString(fmt.Sprintf("• Language: %s\n", destination.LocalTips.Language))
	sb.WriteString(fmt.Sprintf("• Weather: %s\n\n", destination.LocalTips.Weather))
	sb.WriteString(rule + "\n\n")

	sb.WriteString("Just reply to this message with your questions anytime!\n\nHave a wonderful experience! 🌟")
	return sb.String()
}
