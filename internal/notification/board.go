package notification

import (
	"fmt"
	"sync"
)

const emptyCategoryMessage = "No notifications in this category."

// TabBadge is one filter tab with its unread count over the whole collection.
type TabBadge struct {
	Category  Category `json:"category"`
	Label     string   `json:"label"`
	Unread    int      `json:"unread"`
	ShowBadge bool     `json:"show_badge"`
	Active    bool     `json:"active"`
}

// Item is a notification as listed in a view.
type Item struct {
	Notification
	Urgent bool `json:"urgent"`
}

// View is the derived state shown for the active category.
type View struct {
	Active        Category   `json:"active"`
	Headline      string     `json:"headline"`
	UnreadTotal   int        `json:"unread_total"`
	CanMarkAll    bool       `json:"can_mark_all_read"`
	Tabs          []TabBadge `json:"tabs"`
	Notifications []Item     `json:"notifications"`
	EmptyMessage  string     `json:"empty_message,omitempty"`
}

// Badges is the unread count per tab, pushed to stream subscribers.
type Badges struct {
	Total int              `json:"total"`
	Tabs  map[Category]int `json:"tabs"`
}

// Board owns one session's notification collection and active category.
// Every operation is total: unknown ids are ignored.
type Board struct {
	mu     sync.Mutex
	items  []Notification
	active Category

	subs    map[int]chan Badges
	nextSub int
	closed  bool
}

// NewBoard copies seed into a fresh board showing all categories.
func NewBoard(seed []Notification) (*Board, error) {
	seen := make(map[int]struct{}, len(seed))
	for _, n := range seed {
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("notification id %d is not unique", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return &Board{
		items:  append([]Notification(nil), seed...),
		active: CategoryAll,
		subs:   make(map[int]chan Badges),
	}, nil
}

// MarkAllRead marks every notification in the collection read, whatever the active
// category. It returns how many changed.
func (b *Board) MarkAllRead() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := 0
	for i := range b.items {
		if !b.items[i].IsRead {
			b.items[i].IsRead = true
			changed++
		}
	}
	if changed > 0 {
		b.publish()
	}
	return changed
}

// MarkRead marks the notification with id read. It reports whether anything changed.
func (b *Board) MarkRead(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 || b.items[i].IsRead {
		return false
	}
	b.items[i].IsRead = true
	b.publish()
	return true
}

// Delete removes the notification with id. It reports whether it was present.
func (b *Board) Delete(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	b.publish()
	return true
}

// SetCategory switches the active filter. The collection is not touched.
func (b *Board) SetCategory(c Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = c
}

// Len is the size of the full collection.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// View derives the listing for the active category.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	badges := b.badges()
	v := View{
		Active:        b.active,
		UnreadTotal:   badges.Total,
		CanMarkAll:    badges.Total > 0,
		Headline:      headline(badges.Total),
		Tabs:          make([]TabBadge, len(Tabs)),
		Notifications: make([]Item, 0, len(b.items)),
	}
	for i, t := range Tabs {
		n := badges.Tabs[t.Category]
		v.Tabs[i] = TabBadge{
			Category:  t.Category,
			Label:     t.Label,
			Unread:    n,
			ShowBadge: n > 0,
			Active:    t.Category == b.active,
		}
	}
	for _, n := range b.items {
		if b.active == CategoryAll || n.Category == b.active {
			v.Notifications = append(v.Notifications, Item{Notification: n, Urgent: n.Urgent()})
		}
	}
	if len(v.Notifications) == 0 {
		v.EmptyMessage = emptyCategoryMessage
	}
	return v
}

// Badges returns the unread count per tab.
func (b *Board) Badges() Badges {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.badges()
}

// Subscribe registers for badge updates after each mutation. The channel keeps only
// the latest update. The returned func unsubscribes; it is safe to call more than once.
func (b *Board) Subscribe() (<-chan Badges, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Badges, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
}

// Subscribers is the number of open badge subscriptions.
func (b *Board) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription. Mutations keep working but are no longer published.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Board) indexOf(id int) int {
	for i, n := range b.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) badges() Badges {
	out := Badges{Tabs: make(map[Category]int, len(Tabs))}
	for _, t := range Tabs {
		out.Tabs[t.Category] = 0
	}
	for _, n := range b.items {
		if !n.IsRead {
			out.Total++
			out.Tabs[n.Category]++
		}
	}
	out.Tabs[CategoryAll] = out.Total
	return out
}

// publish must be called with b.mu held.
func (b *Board) publish() {
	if len(b.subs) == 0 {
		return
	}
	update := b.badges()
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- update
	}
}

func headline(unread int) string {
	switch unread {
	case 0:
		return "All caught up!"
	case 1:
		return "You have 1 unread notification"
	default:
		return fmt.Sprintf("You have %d unread notifications", unread)
	}
}
