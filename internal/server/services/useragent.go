package services

import (
	"github.com/mssola/useragent"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

const unknownAgentPart = "Unknown"

// loginActivity describes a sign-in from the device named by userAgent,
// e.g. "Windows-10 or Chrome-120.0 login your account".
func loginActivity(userID, userAgent string) models.Activity {
	ua := useragent.New(userAgent)
	osInfo := ua.OSInfo()
	browser, version := ua.Browser()

	return models.Activity{
		UserID: userID,
		Type:   models.ActivityTypeLogin,
		Title:  "Login Your Account",
		Segments: []models.Segment{
			{Bold: true, Text: agentPart(osInfo.Name, osInfo.Version)},
			{Bold: false, Text: "or"},
			{Bold: true, Text: agentPart(browser, version)},
			{Bold: false, Text: "login your account"},
		},
	}
}

func agentPart(name, version string) string {
	if name == "" {
		name = unknownAgentPart
	}
	if version == "" {
		version = unknownAgentPart
	}
	return name + "-" + version
}
