package bots

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/shopassist/shopassist/internal/catalog"
	"github.com/shopassist/shopassist/internal/rewrite"
)

// LINE platform limits.
const (
	maxCarouselBubbles = 12
	maxQuickReplyItems = 13
	maxTextLen         = 5000
	maxLabelLen        = 20
)

// LineMessage is a LINE message object. Only the fields of the
// message types we send are modelled.
type LineMessage struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	QuickReply *lineQuickReply `json:"quickReply,omitempty"`
	AltText    string          `json:"altText,omitempty"`
	Contents   *flexNode       `json:"contents,omitempty"`
}

type lineQuickReply struct {
	Items []lineQuickReplyItem `json:"items"`
}

type lineQuickReplyItem struct {
	Type   string     `json:"type"`
	Action lineAction `json:"action"`
}

type lineAction struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Text  string `json:"text,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// flexNode covers the carousel, bubble, box, image, text and button
// components used in product cards.
type flexNode struct {
	Type        string      `json:"type"`
	Contents    []*flexNode `json:"contents,omitempty"`
	Hero        *flexNode   `json:"hero,omitempty"`
	Body        *flexNode   `json:"body,omitempty"`
	Footer      *flexNode   `json:"footer,omitempty"`
	Layout      string      `json:"layout,omitempty"`
	URL         string      `json:"url,omitempty"`
	Size        string      `json:"size,omitempty"`
	AspectRatio string      `json:"aspectRatio,omitempty"`
	AspectMode  string      `json:"aspectMode,omitempty"`
	Text        string      `json:"text,omitempty"`
	Weight      string      `json:"weight,omitempty"`
	Wrap        bool        `json:"wrap,omitempty"`
	Color       string      `json:"color,omitempty"`
	Style       string      `json:"style,omitempty"`
	Height      string      `json:"height,omitempty"`
	Action      *lineAction `json:"action,omitempty"`
}

// LineRenderer converts replies into LINE message objects.
type LineRenderer struct {
	rewriter *rewrite.Rewriter
}

// NewLineRenderer creates a renderer. rewriter may be nil.
func NewLineRenderer(rewriter *rewrite.Rewriter) *LineRenderer {
	return &LineRenderer{rewriter: rewriter}
}

// Render builds the messages for one reply token: a text message with
// quick replies, or an intro text plus a product carousel.
func (r *LineRenderer) Render(ctx context.Context, reply *Reply) []LineMessage {
	if len(reply.Products) == 0 {
		return []LineMessage{textMessage(reply)}
	}

	intro := reply.Text
	if r.rewriter != nil {
		intro = r.rewriter.Rewrite(ctx, intro)
	}
	return []LineMessage{
		{Type: "text", Text: truncate(intro, maxTextLen)},
		carouselMessage(reply.Products),
	}
}

func textMessage(reply *Reply) LineMessage {
	msg := LineMessage{Type: "text", Text: truncate(reply.Text, maxTextLen)}
	if len(reply.Choices) == 0 {
		return msg
	}
	qr := &lineQuickReply{}
	for i, c := range reply.Choices {
		if i == maxQuickReplyItems {
			break
		}
		qr.Items = append(qr.Items, lineQuickReplyItem{
			Type:   "action",
			Action: lineAction{Type: "message", Label: truncate(c.Label, maxLabelLen), Text: c.Value},
		})
	}
	msg.QuickReply = qr
	return msg
}

func carouselMessage(products []catalog.Product) LineMessage {
	if len(products) > maxCarouselBubbles {
		products = products[:maxCarouselBubbles]
	}
	carousel := &flexNode{Type: "carousel"}
	for _, p := range products {
		carousel.Contents = append(carousel.Contents, productBubble(p))
	}
	return LineMessage{Type: "flex", AltText: "Product List", Contents: carousel}
}

func productBubble(p catalog.Product) *flexNode {
	var link *lineAction
	if p.HasLink() {
		link = &lineAction{Type: "uri", URI: p.ProductURL}
	}

	bubble := &flexNode{
		Type: "bubble",
		Body: &flexNode{
			Type:   "box",
			Layout: "vertical",
			Contents: []*flexNode{
				{Type: "text", Text: nonEmpty(p.Name, catalog.NoTitle), Weight: "bold", Size: "md", Wrap: true},
				{Type: "text", Text: "Price: " + p.Price, Size: "sm", Color: "#999999"},
			},
		},
	}
	if p.HasImage() && strings.HasPrefix(p.ImageURL, "https://") {
		bubble.Hero = &flexNode{
			Type:        "image",
			URL:         p.ImageURL,
			Size:        "full",
			AspectRatio: "20:13",
			AspectMode:  "cover",
			Action:      link,
		}
	}
	if link != nil {
		bubble.Footer = &flexNode{
			Type:   "box",
			Layout: "vertical",
			Contents: []*flexNode{{
				Type:   "button",
				Style:  "primary",
				Color:  "#00C853",
				Height: "sm",
				Action: &lineAction{Type: "uri", Label: "View Product", URI: p.ProductURL},
			}},
		}
	}
	return bubble
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
