// Package notify turns a finished driver message into something a driver
// sees: a WhatsApp group link carrying the text, or a post in a Telegram group.
package notify

import (
	"net/url"
	"strings"
)

// WhatsAppLink appends the message to the group invite link as the text
// query parameter.
func WhatsAppLink(groupLink, message string) string {
	sep := "?"
	if strings.Contains(groupLink, "?") {
		sep = "&"
	}
	return groupLink + sep + "text=" + url.QueryEscape(message)
}
