package utils

import (
	"fmt"

	"github.com/smx/phishsim/internal/core"
)

// Prompt formats per template type. Each takes the target name and
// department and asks the model for a Subject: line followed by the body,
// which ParseGeneratedEmail then splits.
const (
	urgentActionPrompt = `Write a complete urgent action email for %s from %s department at SMX.

Create a realistic email about an urgent account security issue that requires immediate action. Include specific details like IP addresses, times, and consequences. Make it sound like a legitimate IT security alert from SMX.

Format as:
Subject: [specific urgent subject]
[complete email body with all details filled in - no placeholders, signed by SMX IT Security Team]`

	securityAlertPrompt = `Write a complete security verification email for %s from %s department at SMX.

Create a realistic email about suspicious account activity that needs verification. Include specific details about the suspicious activity and verification steps. Make it sound like a legitimate security alert from SMX.

Format as:
Subject: [specific security subject]
[complete email body with all details filled in - no placeholders, signed by SMX Security Team]`

	passwordExpiryPrompt = `Write a complete password expiration notice for %s from %s department at SMX.

Create a realistic email about password expiration with specific dates and instructions. Include the expiration date, consequences, and step-by-step instructions. Make it sound like a legitimate IT notification from SMX.

Format as:
Subject: [specific password expiry subject]
[complete email body with all details filled in - no placeholders, signed by SMX IT Team]`

	systemUpdatePrompt = `Write a complete system maintenance email for %s from %s department at SMX.

Create a realistic email about scheduled system maintenance with specific dates, times, and affected services. Include what will be updated, downtime details, and required actions. Make it sound like a legitimate IT maintenance notice from SMX.

Format as:
Subject: [specific maintenance subject]
[complete email body with all details filled in - no placeholders, signed by SMX IT Operations Team]`

	genericPrompt = `Write a complete email for %s from %s department at SMX.

Create a realistic email about an important notice that requires action. Include specific details and clear instructions. Make it sound professional and legitimate from SMX.

Format as:
Subject: [specific subject]
[complete email body with all details filled in - no placeholders, signed by SMX Team]`
)

// BuildEmailPrompt builds the generation prompt for the given target and
// template type. Unknown template types get the generic prompt.
func BuildEmailPrompt(target core.TargetInfo, templateType string) string {
	var format string
	switch templateType {
	case core.TemplateUrgentAction:
		format = urgentActionPrompt
	case core.TemplateSecurityAlert:
		format = securityAlertPrompt
	case core.TemplatePasswordExpiry:
		format = passwordExpiryPrompt
	case core.TemplateSystemUpdate:
		format = systemUpdatePrompt
	default:
		format = genericPrompt
	}
	return fmt.Sprintf(format, target.Name, target.Department)
}
