package store

import (
	"strings"
	"sync"
	"time"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
)

// subscriptionWindow is fixed at creation time and never extended.
const subscriptionWindow = 30 * 24 * time.Hour

type unlockKey struct {
	creator string
	fan     string
	postID  int64
}

// Store holds the in-memory state behind a single lock. Writes are
// exclusive, so check-then-append sequences (the unlock and subscription
// idempotency keys) are at-most-once even under concurrent requests; reads
// observe a consistent snapshot.
type Store struct {
	mu sync.RWMutex

	users          map[int64]*models.User
	userIDsByEmail map[string]int64 // emails stored lowercased
	userIDsByName  map[string]int64 // canonical usernames
	userOrder      []int64

	creators         map[int64]*models.CreatorProfile
	creatorIDsByName map[string]int64
	creatorOrder     []int64

	posts            map[int64]*models.Post
	postIDsByCreator map[string][]int64
	postOrder        []int64

	transactions  []models.Transaction
	subscriptions []models.Subscription
	unlocks       []models.UnlockRecord
	unlockKeys    map[unlockKey]struct{}
	messages      []models.Message

	nextUserID         int64
	nextCreatorID      int64
	nextPostID         int64
	nextTransactionID  int64
	nextSubscriptionID int64
	nextMessageID      int64

	// onDirty is invoked after every mutation, inside the write lock. It
	// must be cheap and must not call back into the store.
	onDirty func()
}

// New builds a Store from a loaded state. Records missing likes/likedBy are
// defaulted here, once, instead of on every read path.
func New(state *State, onDirty func()) *Store {
	if state == nil {
		state = &State{}
	}
	s := &Store{
		users:              make(map[int64]*models.User),
		userIDsByEmail:     make(map[string]int64),
		userIDsByName:      make(map[string]int64),
		creators:           make(map[int64]*models.CreatorProfile),
		creatorIDsByName:   make(map[string]int64),
		posts:              make(map[int64]*models.Post),
		postIDsByCreator:   make(map[string][]int64),
		unlockKeys:         make(map[unlockKey]struct{}),
		nextUserID:         1,
		nextCreatorID:      1,
		nextPostID:         1,
		nextTransactionID:  1,
		nextSubscriptionID: 1,
		nextMessageID:      1,
		onDirty:            onDirty,
	}

	for i := range state.Users {
		u := state.Users[i]
		s.indexUser(&u)
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	for i := range state.Creators {
		c := state.Creators[i]
		s.indexCreator(&c)
		if c.ID >= s.nextCreatorID {
			s.nextCreatorID = c.ID + 1
		}
	}
	for i := range state.Posts {
		p := state.Posts[i]
		if p.LikedBy == nil {
			p.LikedBy = []string{}
		}
		p.Likes = len(p.LikedBy)
		s.indexPost(&p)
		if p.ID >= s.nextPostID {
			s.nextPostID = p.ID + 1
		}
	}
	for _, t := range state.Transactions {
		s.transactions = append(s.transactions, t)
		if t.ID >= s.nextTransactionID {
			s.nextTransactionID = t.ID + 1
		}
	}
	for _, sub := range state.Subscriptions {
		s.subscriptions = append(s.subscriptions, sub)
		if sub.ID >= s.nextSubscriptionID {
			s.nextSubscriptionID = sub.ID + 1
		}
	}
	for _, u := range state.UnlockedPosts {
		s.unlocks = append(s.unlocks, u)
		s.unlockKeys[unlockKey{identity.Canonical(u.CreatorUsername), identity.Canonical(u.FanUsername), u.PostID}] = struct{}{}
	}
	for _, m := range state.Messages {
		s.messages = append(s.messages, m)
		if m.ID >= s.nextMessageID {
			s.nextMessageID = m.ID + 1
		}
	}
	return s
}

func (s *Store) indexUser(u *models.User) {
	s.users[u.ID] = u
	s.userIDsByEmail[strings.ToLower(strings.TrimSpace(u.Email))] = u.ID
	s.userIDsByName[identity.Canonical(u.Username)] = u.ID
	s.userOrder = append(s.userOrder, u.ID)
}

func (s *Store) indexCreator(c *models.CreatorProfile) {
	s.creators[c.ID] = c
	s.creatorIDsByName[identity.Canonical(c.Username)] = c.ID
	s.creatorOrder = append(s.creatorOrder, c.ID)
}

func (s *Store) indexPost(p *models.Post) {
	s.posts[p.ID] = p
	key := identity.Canonical(p.Username)
	s.postIDsByCreator[key] = append(s.postIDsByCreator[key], p.ID)
	s.postOrder = append(s.postOrder, p.ID)
}

func (s *Store) markDirty() {
	if s.onDirty != nil {
		s.onDirty()
	}
}

// Snapshot returns a deep copy of the full state for the durable writer.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := &State{
		Users:         make([]models.User, 0, len(s.userOrder)),
		Creators:      make([]models.CreatorProfile, 0, len(s.creatorOrder)),
		Posts:         make([]models.Post, 0, len(s.postOrder)),
		Transactions:  append([]models.Transaction(nil), s.transactions...),
		Subscriptions: append([]models.Subscription(nil), s.subscriptions...),
		UnlockedPosts: append([]models.UnlockRecord(nil), s.unlocks...),
		Messages:      append([]models.Message(nil), s.messages...),
	}
	for _, id := range s.userOrder {
		state.Users = append(state.Users, *s.users[id])
	}
	for _, id := range s.creatorOrder {
		state.Creators = append(state.Creators, *s.creators[id])
	}
	for _, id := range s.postOrder {
		p := *s.posts[id]
		p.LikedBy = append([]string(nil), p.LikedBy...)
		state.Posts = append(state.Posts, p)
	}
	return state
}

// CreateUser inserts a user, enforcing email (exact, lowercased) and
// username (case-insensitive) uniqueness.
func (s *Store) CreateUser(u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := strings.ToLower(strings.TrimSpace(u.Email))
	nameKey := identity.Canonical(u.Username)
	if _, exists := s.userIDsByEmail[emailKey]; exists {
		return models.User{}, apperrors.Conflict("email %s is already registered", u.Email)
	}
	if _, exists := s.userIDsByName[nameKey]; exists {
		return models.User{}, apperrors.Conflict("username %s is already taken", u.Username)
	}

	u.ID = s.nextUserID
	s.nextUserID++
	u.Email = emailKey
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.indexUser(&u)
	s.markDirty()
	return u, nil
}

// UserByID retrieves a user by id.
func (s *Store) UserByID(id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("user %d not found", id)
	}
	return *u, nil
}

// UserByEmail retrieves a user by exact (lowercased) email.
func (s *Store) UserByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userIDsByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.User{}, apperrors.NotFound("user with email %s not found", email)
	}
	return *s.users[id], nil
}

// MarkEmailVerified consumes a verification token. The flip is one-way: the
// token is cleared so it cannot be replayed.
func (s *Store) MarkEmailVerified(token string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return models.User{}, apperrors.NotFound("verification token not found")
	}
	for _, id := range s.userOrder {
		u := s.users[id]
		if u.VerificationToken == token {
			u.EmailVerified = true
			u.VerificationToken = ""
			s.markDirty()
			return *u, nil
		}
	}
	return models.User{}, apperrors.NotFound("verification token not found")
}

// PromoteToCreator upgrades the user with the given email from fan to
// creator. Roles never downgrade; promoting a creator is a no-op.
func (s *Store) PromoteToCreator(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.userIDsByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return false
	}
	u := s.users[id]
	if u.Role == models.RoleCreator {
		return false
	}
	u.Role = models.RoleCreator
	s.markDirty()
	return true
}

// CreateCreator inserts a creator profile, enforcing case-insensitive
// username uniqueness within the creator namespace.
func (s *Store) CreateCreator(c models.CreatorProfile) (models.CreatorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nameKey := identity.Canonical(c.Username)
	if nameKey == "" {
		return models.CreatorProfile{}, apperrors.Validation("creator username is required")
	}
	if _, exists := s.creatorIDsByName[nameKey]; exists {
		return models.CreatorProfile{}, apperrors.Conflict("creator username %s is already taken", c.Username)
	}

	c.ID = s.nextCreatorID
	s.nextCreatorID++
	if c.Status == "" {
		c.Status = models.CreatorStatusPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.indexCreator(&c)
	s.markDirty()
	return c, nil
}

// CreatorByName retrieves a creator profile by canonical username.
func (s *Store) CreatorByName(username string) (models.CreatorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.creatorIDsByName[identity.Canonical(username)]
	if !ok {
		return models.CreatorProfile{}, apperrors.NotFound("creator %s not found", username)
	}
	return *s.creators[id], nil
}

// CreatePost inserts a post for a creator.
func (s *Store) CreatePost(p models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextPostID
	s.nextPostID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.LikedBy = []string{}
	p.Likes = 0
	s.indexPost(&p)
	s.markDirty()

	out := *s.posts[p.ID]
	out.LikedBy = append([]string(nil), out.LikedBy...)
	return out, nil
}

// PostByID retrieves a post by id.
func (s *Store) PostByID(id int64) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, apperrors.NotFound("post %d not found", id)
	}
	out := *p
	out.LikedBy = append([]string(nil), out.LikedBy...)
	return out, nil
}

// PostsByCreator returns a creator's posts in publication order.
func (s *Store) PostsByCreator(username string) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.postIDsByCreator[identity.Canonical(username)]
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		p := *s.posts[id]
		p.LikedBy = append([]string(nil), p.LikedBy...)
		posts = append(posts, p)
	}
	return posts
}

// ToggleLike flips the fan's membership in the post's likedBy set and
// recomputes the like count from the set size.
func (s *Store) ToggleLike(postID int64, fan string) (models.Post, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return models.Post{}, false, apperrors.NotFound("post %d not found", postID)
	}

	fanKey := identity.Canonical(fan)
	liked := false
	found := -1
	for i, name := range p.LikedBy {
		if name == fanKey {
			found = i
			break
		}
	}
	if found >= 0 {
		p.LikedBy = append(p.LikedBy[:found], p.LikedBy[found+1:]...)
	} else {
		p.LikedBy = append(p.LikedBy, fanKey)
		liked = true
	}
	p.Likes = len(p.LikedBy)
	s.markDirty()

	out := *p
	out.LikedBy = append([]string(nil), out.LikedBy...)
	return out, liked, nil
}

// AppendTransaction appends a revenue event to the ledger.
func (s *Store) AppendTransaction(t models.Transaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t = s.appendTransactionLocked(t)
	s.markDirty()
	return t
}

func (s *Store) appendTransactionLocked(t models.Transaction) models.Transaction {
	t.ID = s.nextTransactionID
	s.nextTransactionID++
	t.CreatorUsername = identity.Canonical(t.CreatorUsername)
	t.FanUsername = identity.Canonical(t.FanUsername)
	if t.Currency == "" {
		t.Currency = "USD"
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.transactions = append(s.transactions, t)
	return t
}

// TransactionsFor returns all transactions for a creator, oldest first.
func (s *Store) TransactionsFor(creator string) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := identity.Canonical(creator)
	var out []models.Transaction
	for _, t := range s.transactions {
		if t.CreatorUsername == key {
			out = append(out, t)
		}
	}
	return out
}

// ActiveSubscription finds an unexpired subscription for (creator, fan).
// Active means status "active" and expiresAt nil or strictly after now.
func (s *Store) ActiveSubscription(creator, fan string, now time.Time) (models.Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeSubscriptionLocked(creator, fan, now)
}

func (s *Store) activeSubscriptionLocked(creator, fan string, now time.Time) (models.Subscription, bool) {
	creatorKey := identity.Canonical(creator)
	fanKey := identity.Canonical(fan)
	for _, sub := range s.subscriptions {
		if identity.Canonical(sub.CreatorUsername) != creatorKey ||
			identity.Canonical(sub.FanUsername) != fanKey {
			continue
		}
		if sub.Status != models.SubscriptionActive {
			continue
		}
		if sub.ExpiresAt == nil || sub.ExpiresAt.After(now) {
			return sub, true
		}
	}
	return models.Subscription{}, false
}

// SubscribeIfNone creates a subscription and its matching transaction unless
// an active unexpired one already exists for (creator, fan). The check and
// the appends happen under one write lock, so concurrent calls cannot
// double-subscribe. Expired rows are retained, never renewed in place.
func (s *Store) SubscribeIfNone(creator, fan, fanEmail string, price float64, now time.Time) (models.Subscription, *models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.activeSubscriptionLocked(creator, fan, now); ok {
		return existing, nil, false
	}

	expires := now.Add(subscriptionWindow)
	sub := models.Subscription{
		ID:              s.nextSubscriptionID,
		CreatorUsername: identity.Canonical(creator),
		FanUsername:     identity.Canonical(fan),
		Price:           price,
		Status:          models.SubscriptionActive,
		CreatedAt:       now,
		ExpiresAt:       &expires,
	}
	s.nextSubscriptionID++
	s.subscriptions = append(s.subscriptions, sub)

	tx := s.appendTransactionLocked(models.Transaction{
		Type:            models.TransactionSubscription,
		CreatorUsername: creator,
		FanUsername:     fan,
		FanEmail:        fanEmail,
		Amount:          price,
		CreatedAt:       now,
	})
	s.markDirty()
	return sub, &tx, true
}

// HasUnlock reports whether (creator, fan, post) already has an unlock.
func (s *Store) HasUnlock(creator, fan string, postID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.unlockKeys[unlockKey{identity.Canonical(creator), identity.Canonical(fan), postID}]
	return ok
}

// UnlockIfNew creates an unlock record and its matching transaction unless
// the (creator, fan, post) triple is already unlocked. Exact-match
// idempotence: a duplicate call appends nothing.
func (s *Store) UnlockIfNew(creator, fan, fanEmail string, postID int64, price float64, now time.Time) (models.UnlockRecord, *models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := unlockKey{identity.Canonical(creator), identity.Canonical(fan), postID}
	if _, exists := s.unlockKeys[key]; exists {
		for _, rec := range s.unlocks {
			if identity.Canonical(rec.CreatorUsername) == key.creator &&
				identity.Canonical(rec.FanUsername) == key.fan &&
				rec.PostID == postID {
				return rec, nil, false
			}
		}
	}

	rec := models.UnlockRecord{
		CreatorUsername: key.creator,
		FanUsername:     key.fan,
		PostID:          postID,
		CreatedAt:       now,
	}
	s.unlocks = append(s.unlocks, rec)
	s.unlockKeys[key] = struct{}{}

	tx := s.appendTransactionLocked(models.Transaction{
		Type:            models.TransactionPPVUnlock,
		CreatorUsername: creator,
		FanUsername:     fan,
		FanEmail:        fanEmail,
		Amount:          price,
		PostID:          &postID,
		CreatedAt:       now,
	})
	s.markDirty()
	return rec, &tx, true
}

// LedgerFor returns the creator's subscriptions and unlocks as one
// consistent snapshot for entitlement computation.
func (s *Store) LedgerFor(creator string) ([]models.Subscription, []models.UnlockRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := identity.Canonical(creator)
	var subs []models.Subscription
	for _, sub := range s.subscriptions {
		if identity.Canonical(sub.CreatorUsername) == key {
			subs = append(subs, sub)
		}
	}
	var unlocks []models.UnlockRecord
	for _, rec := range s.unlocks {
		if identity.Canonical(rec.CreatorUsername) == key {
			unlocks = append(unlocks, rec)
		}
	}
	return subs, unlocks
}

// AppendMessage appends a fan message for a creator.
func (s *Store) AppendMessage(m models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextMessageID
	s.nextMessageID++
	m.CreatorUsername = identity.Canonical(m.CreatorUsername)
	m.FanUsername = identity.Canonical(m.FanUsername)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, m)
	s.markDirty()
	return m
}

// MessagesFor returns a creator's messages, oldest first.
func (s *Store) MessagesFor(creator string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := identity.Canonical(creator)
	var out []models.Message
	for _, m := range s.messages {
		if m.CreatorUsername == key {
			out = append(out, m)
		}
	}
	return out
}
