// Package share builds client-facing links and export documents for plans.
package share

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/meltforce/gymcoach/internal/i18n"
	"github.com/meltforce/gymcoach/internal/models"
)

// ExportSuffix is appended to the sanitized plan name of an export file.
const ExportSuffix = "_workout.json"

// Link returns the client-facing URL of a plan. The plan is not looked up.
func Link(origin, planID string) string {
	return strings.TrimRight(origin, "/") + "/workout/" + url.PathEscape(planID)
}

// Message is the invitation text sent to a client with the plan link.
func Message(loc i18n.Locale, link string) string {
	return i18n.Resolve("Hi! Here's your workout plan:", loc) + " " + link
}

// WhatsAppLink returns a wa.me link prefilled with Message.
func WhatsAppLink(loc i18n.Locale, link string) string {
	return "https://wa.me/?text=" + url.QueryEscape(Message(loc, link))
}

// Invite bundles everything a coach sends to a client for one plan.
type Invite struct {
	URL      string `json:"url"`
	Message  string `json:"message"`
	WhatsApp string `json:"whatsapp"`
}

// NewInvite builds the link, message and WhatsApp link for planID.
func NewInvite(origin, planID string, loc i18n.Locale) Invite {
	link := Link(origin, planID)
	return Invite{
		URL:      link,
		Message:  Message(loc, link),
		WhatsApp: WhatsAppLink(loc, link),
	}
}

// ExportedPlan is the reduced view of a plan written to an export file.
type ExportedPlan struct {
	Name       string             `json:"name"`
	ClientName string             `json:"clientName,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	Exercises  []ExportedExercise `json:"exercises"`
}

// ExportedExercise omits the id, media and set/rep targets of an exercise.
type ExportedExercise struct {
	Name         string   `json:"name"`
	Target       string   `json:"target"`
	Equipment    string   `json:"equipment"`
	Instructions []string `json:"instructions"`
}

// Reduce converts a plan to its export view.
func Reduce(plan models.Plan) ExportedPlan {
	out := ExportedPlan{
		Name:       plan.Name,
		ClientName: plan.ClientName,
		Notes:      plan.Notes,
		Exercises:  make([]ExportedExercise, len(plan.Exercises)),
	}
	for i, ex := range plan.Exercises {
		instructions := ex.Instructions
		if instructions == nil {
			instructions = []string{}
		}
		out.Exercises[i] = ExportedExercise{
			Name:         ex.Name,
			Target:       ex.Target,
			Equipment:    ex.Equipment,
			Instructions: instructions,
		}
	}
	return out
}

// Export renders the plan's export view as indented JSON.
func Export(plan models.Plan) ([]byte, error) {
	data, err := json.MarshalIndent(Reduce(plan), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// ExportFilename derives the download name from the plan name.
func ExportFilename(name string) string {
	return whitespace.ReplaceAllString(name, "_") + ExportSuffix
}
