package service

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultNotifyTTL is how long a notification stays visible.
const DefaultNotifyTTL = 3 * time.Second

// Display shows, rewrites and removes one message in a chat.
type Display interface {
	Show(chatID int64, text string) (messageID int, err error)
	Update(chatID int64, messageID int, text string) error
	Hide(chatID int64, messageID int) error
}

// chatNotice is the notification state of one chat. mu is held across display calls so
// a chat's notifications are applied in order.
type chatNotice struct {
	mu        sync.Mutex
	visible   bool
	messageID int
	timer     *time.Timer
	seq       uint64
}

// NotificationService keeps at most one notification visible per chat. A new notification
// replaces the visible one and restarts its hide timer.
type NotificationService struct {
	display Display
	ttl     time.Duration

	mu    sync.Mutex
	chats map[int64]*chatNotice
}

func NewNotificationService(display Display, ttl time.Duration) *NotificationService {
	if ttl <= 0 {
		ttl = DefaultNotifyTTL
	}
	return &NotificationService{
		display: display,
		ttl:     ttl,
		chats:   make(map[int64]*chatNotice),
	}
}

func (n *NotificationService) Notify(chatID int64, text string) error {
	c := n.chat(chatID)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	seq := c.seq

	if c.visible {
		c.timer.Stop()
		if err := n.display.Update(chatID, c.messageID, text); err == nil {
			c.timer = n.hideAfter(chatID, c, seq)
			return nil
		}
		// The message may be gone already; fall back to a fresh one.
		c.visible = false
	}

	messageID, err := n.display.Show(chatID, text)
	if err != nil {
		return fmt.Errorf("show notification: %w", err)
	}
	c.visible = true
	c.messageID = messageID
	c.timer = n.hideAfter(chatID, c, seq)
	return nil
}

// Close hides every visible notification.
func (n *NotificationService) Close() {
	n.mu.Lock()
	chats := make(map[int64]*chatNotice, len(n.chats))
	for chatID, c := range n.chats {
		chats[chatID] = c
	}
	n.mu.Unlock()

	for chatID, c := range chats {
		c.mu.Lock()
		if c.visible {
			c.timer.Stop()
			c.visible = false
			if err := n.display.Hide(chatID, c.messageID); err != nil {
				log.Printf("[warn] hide notification chat=%d: %v", chatID, err)
			}
		}
		c.mu.Unlock()
	}
}

func (n *NotificationService) chat(chatID int64) *chatNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.chats[chatID]
	if !ok {
		c = &chatNotice{}
		n.chats[chatID] = c
	}
	return c
}

func (n *NotificationService) hideAfter(chatID int64, c *chatNotice, seq uint64) *time.Timer {
	return time.AfterFunc(n.ttl, func() { n.hide(chatID, c, seq) })
}

// hide removes the notification if it is still the one scheduled as seq.
func (n *NotificationService) hide(chatID int64, c *chatNotice, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.visible || c.seq != seq {
		return
	}
	c.visible = false
	if err := n.display.Hide(chatID, c.messageID); err != nil {
		log.Printf("[warn] hide notification chat=%d: %v", chatID, err)
	}
}
