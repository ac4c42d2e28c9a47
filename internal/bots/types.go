package bots

import (
	"errors"
	"fmt"

	"github.com/shopassist/shopassist/internal/catalog"
	"github.com/shopassist/shopassist/internal/dialogue"
)

// Platform identifies the messaging platform.
type Platform string

const PlatformLine Platform = "line"

// NoProductsReply is sent when a catalog search returns nothing or fails.
const NoProductsReply = "No products found."

// ErrMalformedEvent is returned for events missing a required field.
var ErrMalformedEvent = errors.New("malformed event")

// Event is an inbound text message. All three fields are required.
type Event struct {
	Platform   Platform
	ReplyToken string
	UserID     string
	Text       string
}

// Validate reports which required field is missing.
func (e Event) Validate() error {
	switch {
	case e.ReplyToken == "":
		return fmt.Errorf("%w: missing reply token", ErrMalformedEvent)
	case e.UserID == "":
		return fmt.Errorf("%w: missing user id", ErrMalformedEvent)
	case e.Text == "":
		return fmt.Errorf("%w: missing message text", ErrMalformedEvent)
	}
	return nil
}

// Reply is a platform-neutral response: either text with optional quick
// choices, or an intro text followed by a product carousel.
type Reply struct {
	ReplyToken string
	Text       string
	Choices    []dialogue.Choice
	Products   []catalog.Product
}
