package bots

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopassist/shopassist/internal/catalog"
	"github.com/shopassist/shopassist/internal/dialogue"
	"github.com/shopassist/shopassist/internal/intent"
	"github.com/shopassist/shopassist/internal/logger"
	"github.com/shopassist/shopassist/internal/session"
)

// Resolver decides the intent reply for a message.
type Resolver interface {
	Resolve(ctx context.Context, text string) intent.Resolution
}

// ProcessorOptions bounds the processor's calls to its collaborators.
type ProcessorOptions struct {
	SessionTimeout time.Duration
	CatalogTimeout time.Duration
	Logger         *zap.Logger
}

// Processor runs one conversational turn: intent resolution, the
// dialogue step, an optional catalog fetch and the session write.
type Processor struct {
	resolver Resolver
	machine  *dialogue.Machine
	sessions session.Backend
	scraper  catalog.Scraper
	locker   *session.Locker
	opts     ProcessorOptions
	log      *zap.Logger
}

// NewProcessor creates a message processor.
func NewProcessor(resolver Resolver, sessions session.Backend, scraper catalog.Scraper, opts ProcessorOptions) *Processor {
	return &Processor{
		resolver: resolver,
		machine:  dialogue.NewMachine(),
		sessions: sessions,
		scraper:  scraper,
		locker:   session.NewLocker(),
		opts:     opts,
		log:      logger.OrNop(opts.Logger).Named("processor"),
	}
}

// HandleEvent processes one event. Malformed events return
// ErrMalformedEvent and touch nothing. Upstream failures never surface
// as errors; they degrade to a fallback reply.
func (p *Processor) HandleEvent(ctx context.Context, ev Event) (*Reply, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	unlock := p.locker.Lock(ev.UserID)
	defer unlock()

	log := p.log.With(zap.String("user_id", ev.UserID))

	sess, err := p.load(ctx, ev.UserID)
	if err != nil {
		// The position is unknown, so the turn is logged without
		// touching the stored one.
		log.Error("loading session", zap.Error(err))
		reply := &Reply{ReplyToken: ev.ReplyToken, Text: intent.FallbackReply}
		p.recordOrLog(ctx, log, session.Turn{
			UserID:      ev.UserID,
			UserMessage: dialogue.Normalize(ev.Text),
			BotResponse: reply.Text,
			LogOnly:     true,
		})
		return reply, nil
	}

	res := p.resolver.Resolve(ctx, ev.Text)
	d := p.machine.Step(sess.Position(), ev.Text, res)
	log.Debug("dialogue step",
		zap.String("input", d.Input),
		zap.String("from", d.From.String()),
		zap.String("to", d.To.String()),
		zap.String("action", string(d.Action)),
		zap.Bool("confident", res.Confident),
		zap.Float64("distance", res.Match.Distance))

	reply := &Reply{ReplyToken: ev.ReplyToken, Text: d.Text, Choices: d.Choices}

	var scraped string
	if d.Fetch() {
		products := p.fetch(ctx, log, d.FetchURL)
		if len(products) == 0 {
			reply.Text = NoProductsReply
		} else {
			reply.Products = products
			scraped = summarize(products)
		}
	}

	turn := session.Turn{
		UserID:      ev.UserID,
		UserMessage: d.Input,
		BotResponse: reply.Text,
		LastKeyword: d.Keyword(sess.LastKeyword),
		ScrapedText: scraped,
		StateBefore: d.From,
		StateAfter:  d.To,
		PendingURL:  d.PendingURL,
	}
	p.recordOrLog(ctx, log, turn)

	return reply, nil
}

func (p *Processor) load(ctx context.Context, userID string) (session.Session, error) {
	ctx, cancel := withTimeout(ctx, p.opts.SessionTimeout)
	defer cancel()
	return p.sessions.Load(ctx, userID)
}

func (p *Processor) recordOrLog(ctx context.Context, log *zap.Logger, turn session.Turn) {
	ctx, cancel := withTimeout(ctx, p.opts.SessionTimeout)
	defer cancel()
	if err := p.sessions.RecordTurn(ctx, turn); err != nil {
		log.Error("recording turn", zap.Error(err))
	}
}

func (p *Processor) fetch(ctx context.Context, log *zap.Logger, url string) []catalog.Product {
	if p.scraper == nil {
		return nil
	}
	ctx, cancel := withTimeout(ctx, p.opts.CatalogTimeout)
	defer cancel()

	start := time.Now()
	products, err := p.scraper.FetchProducts(ctx, url)
	if err != nil {
		log.Warn("catalog fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	log.Info("catalog fetched",
		zap.String("url", url),
		zap.Int("products", len(products)),
		zap.Duration("took", time.Since(start)))
	return products
}

func summarize(products []catalog.Product) string {
	var b strings.Builder
	for _, pr := range products {
		fmt.Fprintf(&b, "%s | %s | %s\n", pr.Name, pr.Price, pr.ProductURL)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
