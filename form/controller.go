// Package form owns the state of one deck editing session.
//
// A Controller holds the current deck.Document as an immutable snapshot.
// Every change is submitted as a function over a single update channel and
// applied in order by one loop goroutine, which publishes the new snapshot
// and emits a Notice. Slow work (decoding uploads, calling the generation
// API) runs outside the loop; only its result is applied, always to the
// snapshot that is current at completion time.
//
//	c := form.New(deck.Default(), form.WithGenerator(client))
//	defer c.Close()
//	c.UpdateField(deck.FieldBranding, "acme")
//	if err := <-c.Generate(ctx, genai.Request{Topic: "observability"}); err != nil {
//		// the deck is unchanged
//	}
//	pdfdeck.Export(w, c.Snapshot())
package form

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/genai"
	"github.com/bytespark/pdfdeck/internal/logger"
)

var (
	ErrClosed      = errors.New("form: controller closed")
	ErrNoGenerator = errors.New("form: no content generator configured")
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNotifier sets where notices go. The default logs them.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithGenerator enables Generate.
func WithGenerator(g genai.Generator) Option {
	return func(c *Controller) { c.gen = g }
}

// WithImageLimits overrides DefaultImageLimits.
func WithImageLimits(l ImageLimits) Option {
	return func(c *Controller) { c.limits = l }
}

type update struct {
	apply func(deck.Document) (deck.Document, Notice, error)
	reply chan outcome
}

type outcome struct {
	notice Notice
	err    error
}

// Controller is one editing session. Its methods are safe for concurrent
// use; Close releases the loop goroutine.
type Controller struct {
	id       uuid.UUID
	log      *logger.Logger
	notifier Notifier
	gen      genai.Generator
	limits   ImageLimits

	current atomic.Pointer[deck.Document]
	updates chan update
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu     sync.Mutex
	nextID int
	subs   map[int]chan deck.Document
}

// New starts a controller holding a copy of initial. A Document without
// slides is given the default first slide so the session starts valid.
func New(initial deck.Document, opts ...Option) *Controller {
	c := &Controller{
		id:      uuid.New(),
		log:     logger.Nop(),
		limits:  DefaultImageLimits,
		updates: make(chan update),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		subs:    make(map[int]chan deck.Document),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("session", c.id.String())
	if c.notifier == nil {
		c.notifier = LogNotifier{Log: c.log}
	}

	doc := initial.Clone()
	if len(doc.Slides) == 0 {
		doc.Slides = deck.Default().Slides[:1]
	}
	c.current.Store(&doc)

	go c.loop()
	return c
}

// ID identifies the session in logs.
func (c *Controller) ID() uuid.UUID { return c.id }

// Snapshot returns a copy of the current document.
func (c *Controller) Snapshot() deck.Document {
	return c.current.Load().Clone()
}

// Subscribe returns a channel that receives every new snapshot, starting
// with the current one. A slow reader only sees the latest snapshot. Call
// cancel to stop receiving; the channel is closed on cancel or Close.
func (c *Controller) Subscribe() (<-chan deck.Document, func()) {
	ch := make(chan deck.Document, 1)
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.current.Load().Clone()
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close stops the controller. Operations after Close return ErrClosed.
func (c *Controller) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		close(c.done)
		c.mu.Unlock()
		<-c.stopped

		c.mu.Lock()
		for id, ch := range c.subs {
			delete(c.subs, id)
			close(ch)
		}
		c.mu.Unlock()
		c.log.Debug("form session closed")
	})
	return nil
}

func (c *Controller) loop() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			return
		case u := <-c.updates:
			cur := *c.current.Load()
			next, notice, err := u.apply(cur)
			if err == nil {
				c.current.Store(&next)
				c.publish(next)
			}
			u.reply <- outcome{notice: notice, err: err}
		}
	}
}

func (c *Controller) publish(doc deck.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- doc.Clone()
	}
}

// submit runs fn on the loop and waits for it to be applied. When fn
// returns an error the snapshot is left as it was. The notice is delivered
// from the calling goroutine once the loop is free again.
func (c *Controller) submit(fn func(deck.Document) (deck.Document, Notice, error)) error {
	u := update{apply: fn, reply: make(chan outcome, 1)}
	select {
	case <-c.done:
		return ErrClosed
	case c.updates <- u:
	}

	var out outcome
	select {
	case out = <-u.reply:
	case <-c.stopped:
		// The loop may have applied u just before stopping.
		select {
		case out = <-u.reply:
		default:
			return ErrClosed
		}
	}
	if out.notice.Message != "" {
		c.notifier.Notify(out.notice)
	}
	return out.err
}

// UpdateField sets a top-level text field.
func (c *Controller) UpdateField(f deck.Field, value string) error {
	return c.submit(func(d deck.Document) (deck.Document, Notice, error) {
		next, err := d.WithField(f, value)
		return next, Notice{}, err
	})
}

// UpdateSlide sets one field of the slide at index. An index that no longer
// exists is ignored.
func (c *Controller) UpdateSlide(index int, f deck.SlideField, value string) error {
	return c.submit(func(d deck.Document) (deck.Document, Notice, error) {
		return d.WithSlideField(index, f, value), Notice{}, nil
	})
}

// AddSlide appends a slide with the next default label.
func (c *Controller) AddSlide() error {
	return c.submit(func(d deck.Document) (deck.Document, Notice, error) {
		return d.AddSlide(), success(MsgSlideAdded), nil
	})
}

// RemoveSlide deletes the slide at index. Removing the only slide is
// rejected with deck.ErrLastSlide.
func (c *Controller) RemoveSlide(index int) error {
	return c.submit(func(d deck.Document) (deck.Document, Notice, error) {
		next, err := d.RemoveSlide(index)
		switch {
		case errors.Is(err, deck.ErrLastSlide):
			return d, failure(MsgLastSlide), err
		case err != nil:
			return d, Notice{}, err
		}
		return next, success(MsgSlideRemoved), nil
	})
}

// ClearImage unsets slot.
func (c *Controller) ClearImage(slot deck.ImageSlot) error {
	if !slot.Valid() {
		return deck.ErrUnknownField
	}
	return c.submit(func(d deck.Document) (deck.Document, Notice, error) {
		return d.WithoutImage(slot), Notice{}, nil
	})
}

// AttachImage reads an upload from r in the background and stores it in
// slot, replacing the previous image. The returned channel yields the
// outcome once the snapshot has been updated (or left alone on failure).
func (c *Controller) AttachImage(slot deck.ImageSlot, r io.Reader) <-chan error {
	result := make(chan error, 1)
	if !slot.Valid() {
		result <- deck.ErrUnknownField
		return result
	}

	ok, bad := MsgCenterImageUpload, MsgCenterImageFailed
	if slot == deck.SlotCompanyLogo {
		ok, bad = MsgCompanyLogoUpload, MsgCompanyLogoFailed
	}

	go func() {
		w, h := c.limits.bounds(slot)
		img, err := Normalize(r, w, h)
		if err != nil {
			c.log.Warn("image upload rejected", "slot", slot.String(), "error", err)
			result <- c.submit(func(d deck.Document) (deck.Document, Notice, error) {
				return d, failure(bad), err
			})
			return
		}
		result <- c.submit(func(d deck.Document) (deck.Document, Notice, error) {
			return d.WithImage(slot, img), success(ok), nil
		})
	}()
	return result
}

// Generate drafts new content in the background and, on success, replaces
// the generated fields of the current snapshot. On failure the snapshot is
// unchanged and the error (a *genai.GenerationError) is delivered on the
// returned channel.
func (c *Controller) Generate(ctx context.Context, req genai.Request) <-chan error {
	result := make(chan error, 1)
	if c.gen == nil {
		result <- ErrNoGenerator
		return result
	}

	go func() {
		content, err := c.gen.Generate(ctx, req)
		if err != nil {
			c.log.Warn("content generation failed", "error", err, "cause", errors.Unwrap(err))
			result <- c.submit(func(d deck.Document) (deck.Document, Notice, error) {
				return d, failure(MsgGenerationFailed), err
			})
			return
		}
		result <- c.submit(func(d deck.Document) (deck.Document, Notice, error) {
			return d.WithContent(content), success(MsgContentGenerated), nil
		})
	}()
	return result
}
