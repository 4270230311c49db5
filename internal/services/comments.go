package services

import (
	wr "github.com/mroth/weightedrand/v2"
)

// Generic templates weigh higher than emoji-only ones so comment threads read
// slightly less uniform.
var commentChooser, _ = wr.NewChooser(
	wr.NewChoice("Great post! 🔥", 3),
	wr.NewChoice("Love this! ❤️", 3),
	wr.NewChoice("Amazing content 👏", 3),
	wr.NewChoice("So true!", 2),
	wr.NewChoice("This is awesome", 2),
	wr.NewChoice("Totally agree 💯", 2),
	wr.NewChoice("Keep it up!", 2),
	wr.NewChoice("🔥🔥🔥", 1),
	wr.NewChoice("💯", 1),
	wr.NewChoice("👏👏", 1),
)

// PickComment draws a template for an automated comment action.
func PickComment() string {
	return commentChooser.Pick()
}
