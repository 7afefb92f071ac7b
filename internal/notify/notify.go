package notify

import (
	"github.com/gen2brain/beeep"
)

const title = "Today's prompt"

// Prompt shows the daily reflection prompt as a desktop notification.
func Prompt(prompt string) error {
	return beeep.Notify(title, prompt, "")
}
