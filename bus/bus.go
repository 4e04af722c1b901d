// bus.go
package bus

import (
	"context"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
)

// -----------------------------------------------------------------------------
// Tokens + Topics
// -----------------------------------------------------------------------------

// Token is a single element in a topic path. Any comparable value works as a
// token; topics built from strings and small ints cost nothing extra.
// The string tokens "+" and "#" are wildcards in subscription topics:
// "+" matches exactly one level, "#" matches zero or more trailing levels.
type Token = any

// Topic is a sequence of tokens.
type Topic []Token

// T builds a topic from tokens. It panics if a token is not comparable,
// since tokens are used as map keys inside the trie.
func T(tokens ...Token) Topic {
	for _, tok := range tokens {
		if tok == nil || !reflect.TypeOf(tok).Comparable() {
			panic("bus: topic token must be comparable")
		}
	}
	return Topic(tokens)
}

// Append returns a new topic with the extra tokens added.
func (t Topic) Append(tokens ...Token) Topic {
	out := make(Topic, 0, len(t)+len(tokens))
	out = append(out, t...)
	out = append(out, tokens...)
	return out
}

func isWildcard(tok Token, w string) bool {
	s, ok := tok.(string)
	return ok && s == w
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	bus   *Bus
	conn  *Connection // owning connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[Token]*node
	subs     []*Subscription
	retained *Message
}

func (n *node) empty() bool {
	return len(n.subs) == 0 && len(n.children) == 0 && n.retained == nil
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu       sync.RWMutex
	root     *node
	qLen     int
	replySeq uint32
}

// NewBus creates a new bus with the given subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	return &Bus{
		root: &node{},
		qLen: queueLen,
	}
}

// NewMessage is a convenience constructor.
func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// addSubscription inserts a subscription into the trie and delivers any
// retained messages whose concrete topics match the subscription pattern.
func (b *Bus) addSubscription(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range topic {
		if n.children == nil {
			n.children = make(map[Token]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	b.retainedMatching(b.root, topic, sub)
}

// retainedMatching walks the trie delivering retained messages that match
// the (possibly wildcarded) pattern.
func (b *Bus) retainedMatching(n *node, pattern Topic, sub *Subscription) {
	if len(pattern) == 0 {
		if n.retained != nil {
			b.send(sub, n.retained)
		}
		return
	}
	tok := pattern[0]
	switch {
	case isWildcard(tok, "#"):
		b.allRetained(n, sub)
	case isWildcard(tok, "+"):
		for _, child := range n.children {
			b.retainedMatching(child, pattern[1:], sub)
		}
	default:
		if child, ok := n.children[tok]; ok {
			b.retainedMatching(child, pattern[1:], sub)
		}
	}
}

// allRetained delivers every retained message at n and below ("#" matches
// zero or more levels, so n itself is included).
func (b *Bus) allRetained(n *node, sub *Subscription) {
	if n.retained != nil {
		b.send(sub, n.retained)
	}
	for _, child := range n.children {
		b.allRetained(child, sub)
	}
}

// Publish delivers a message to all matching subscribers and stores or
// clears the retained copy for its topic.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deliver(b.root, msg.Topic, msg)

	if msg.Retained {
		b.storeRetained(msg)
	}
}

// deliver matches the concrete topic against the subscription trie.
// A "#" child at any visited node terminates the remaining depth.
func (b *Bus) deliver(n *node, rest Topic, msg *Message) {
	if n.children != nil {
		if h, ok := n.children[Token("#")]; ok {
			for _, sub := range h.subs {
				b.send(sub, msg)
			}
		}
	}
	if len(rest) == 0 {
		for _, sub := range n.subs {
			b.send(sub, msg)
		}
		return
	}
	if n.children == nil {
		return
	}
	if child, ok := n.children[rest[0]]; ok {
		b.deliver(child, rest[1:], msg)
	}
	if child, ok := n.children[Token("+")]; ok {
		b.deliver(child, rest[1:], msg)
	}
}

// send is non-blocking: when a subscriber queue is full the oldest message
// is dropped to make room.
func (b *Bus) send(sub *Subscription, msg *Message) {
	select {
	case sub.ch <- msg:
	default:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// storeRetained records the message at its exact topic path. A retained
// message with a nil payload clears the slot.
func (b *Bus) storeRetained(msg *Message) {
	n := b.root
	var stack []*node
	for _, tok := range msg.Topic {
		if n.children == nil {
			if msg.Payload == nil {
				return // clearing something that was never stored
			}
			n.children = make(map[Token]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			if msg.Payload == nil {
				return
			}
			child = &node{}
			n.children[tok] = child
		}
		stack = append(stack, n)
		n = child
	}
	if msg.Payload == nil {
		n.retained = nil
		b.prune(stack, msg.Topic, n)
		return
	}
	n.retained = msg
}

func (b *Bus) prune(stack []*node, topic Topic, leaf *node) {
	n := leaf
	for i := len(stack) - 1; i >= 0; i-- {
		if !n.empty() {
			return
		}
		delete(stack[i].children, topic[i])
		n = stack[i]
	}
}

// unsubscribe removes a subscription from the trie.
func (b *Bus) unsubscribe(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	var stack []*node
	for _, tok := range topic {
		if n.children == nil {
			return
		}
		child, ok := n.children[tok]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}

	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	b.prune(stack, topic, n)
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	subs []*Subscription
	mu   sync.Mutex
	id   string // placeholder for future identity/auth
}

// NewConnection creates a new connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{
		bus: b,
		id:  id,
	}
}

// NewMessage mirrors Bus.NewMessage for convenience.
func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

// Publish sends a message via the bus.
func (c *Connection) Publish(msg *Message) {
	c.bus.Publish(msg)
}

// Subscribe registers a subscription owned by this connection.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, c.bus.qLen),
		bus:   c.bus,
		conn:  c,
	}
	c.bus.addSubscription(topic, sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription owned by this connection.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.bus.unsubscribe(sub.topic, sub)
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	close(sub.ch)
}

// Disconnect closes all subscriptions and clears them.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		c.bus.unsubscribe(sub.topic, sub)
		close(sub.ch)
	}
}

// -----------------------------------------------------------------------------
// Request–Reply
// -----------------------------------------------------------------------------

// Request publishes msg with a fresh ReplyTo topic and returns the
// subscription on which replies arrive. The caller owns the subscription.
func (c *Connection) Request(msg *Message) *Subscription {
	if len(msg.ReplyTo) == 0 {
		seq := atomic.AddUint32(&c.bus.replySeq, 1)
		msg.ReplyTo = Topic{"reply", c.id, strconv.FormatUint(uint64(seq), 10)}
	}
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

// RequestWait performs a request and waits for the first reply or ctx expiry.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)

	select {
	case reply := <-sub.ch:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reply publishes a response on the request's ReplyTo topic. It is a no-op
// when the request did not ask for a reply.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if len(req.ReplyTo) == 0 {
		return
	}
	c.Publish(&Message{Topic: req.ReplyTo, Payload: payload, Retained: retained})
}
