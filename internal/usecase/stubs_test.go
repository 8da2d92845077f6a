package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]domain.User
	claims map[string][]domain.UserClaim

	createErr     error
	setLockoutErr error
	addClaimsErr  error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:  make(map[string]domain.User),
		claims: make(map[string][]domain.UserClaim),
	}
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetProfiles(_ context.Context, ids []string) (map[string]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profiles := make(map[string]domain.User, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			profiles[id] = user
		}
	}
	return profiles, nil
}

func (r *stubUserRepo) SetLockoutEnd(_ context.Context, id string, end *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setLockoutErr != nil {
		return r.setLockoutErr
	}
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LockoutEnd = end
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) AddClaims(_ context.Context, claims []domain.UserClaim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addClaimsErr != nil {
		return r.addClaimsErr
	}
	for _, c := range claims {
		r.claims[c.UserID] = append(r.claims[c.UserID], c)
	}
	return nil
}

func (r *stubUserRepo) GetClaims(_ context.Context, userID string) ([]domain.UserClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claims[userID], nil
}

type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]domain.RefreshToken)}
}

func (r *stubTokenRepo) Create(_ context.Context, token domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.ID] = token
	return nil
}

func (r *stubTokenRepo) GetActiveByUser(_ context.Context, userID string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.RefreshToken
	for _, token := range r.tokens {
		if token.UserID != userID || token.RevokedOn != nil {
			continue
		}
		t := token
		if latest == nil || t.CreatedOn.After(latest.CreatedOn) {
			latest = &t
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *stubTokenRepo) GetByToken(_ context.Context, value string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Token == value {
			t := token
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubTokenRepo) Revoke(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return repository.ErrNotFound
	}
	token.Revoke(at)
	r.tokens[id] = token
	return nil
}

type stubMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message

	markSeenErr error
}

func (r *stubMessageRepo) Create(_ context.Context, message domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func (r *stubMessageRepo) GetConversation(_ context.Context, firstUserID, secondUserID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Message
	for _, m := range r.messages {
		if (m.SenderID == firstUserID && m.ReceiverID == secondUserID) ||
			(m.SenderID == secondUserID && m.ReceiverID == firstUserID) {
			result = append(result, m)
		}
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].Timestamp.Before(result[i].Timestamp) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (r *stubMessageRepo) ListByParticipant(_ context.Context, userID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Message
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			result = append(result, m)
		}
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].Timestamp.After(result[i].Timestamp) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (r *stubMessageRepo) MarkSeen(_ context.Context, receiverID, senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markSeenErr != nil {
		return r.markSeenErr
	}
	for i, m := range r.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID {
			r.messages[i].Status = domain.MessageStatusSeen
		}
	}
	return nil
}

func (r *stubMessageRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubCartRepo struct {
	mu    sync.Mutex
	items map[string]domain.Item
	cart  []domain.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: make(map[string]domain.Item)}
}

func (r *stubCartRepo) ListByClient(_ context.Context, clientID string) ([]domain.CartItemView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var views []domain.CartItemView
	for _, entry := range r.cart {
		if entry.ClientID != clientID {
			continue
		}
		item := r.items[entry.ItemID]
		views = append(views, domain.CartItemView{
			ItemID: item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Image:  item.Image,
		})
	}
	return views, nil
}

func (r *stubCartRepo) IsInCart(_ context.Context, itemID, clientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.cart {
		if entry.ItemID == itemID && entry.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCartRepo) ItemExists(_ context.Context, itemID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[itemID]
	return ok, nil
}

func (r *stubCartRepo) Add(_ context.Context, cartItem domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart = append(r.cart, cartItem)
	return nil
}

func (r *stubCartRepo) Remove(_ context.Context, itemID, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, entry := range r.cart {
		if entry.ItemID == itemID && entry.ClientID == clientID {
			r.cart = append(r.cart[:i], r.cart[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubReportRepo struct {
	mu      sync.Mutex
	reports map[string]domain.Report
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{reports: make(map[string]domain.Report)}
}

func (r *stubReportRepo) Create(_ context.Context, report domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
	return nil
}

func (r *stubReportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &report, nil
}

func (r *stubReportRepo) ListByType(_ context.Context, reportType domain.ReportType) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Report
	for _, report := range r.reports {
		if report.Type == reportType {
			result = append(result, report)
		}
	}
	return result, nil
}

func (r *stubReportRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reports, id)
	return nil
}

type recordedEvent struct {
	kind    string
	userID  string
	payload any
}

type stubEventPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *stubEventPublisher) record(kind, userID string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: kind, userID: userID, payload: payload})
}

func (p *stubEventPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.kind
	}
	return out
}

func (p *stubEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.record("user.registered", event.UserID, event)
	return nil
}

func (p *stubEventPublisher) PublishUserBlocked(_ context.Context, event domain.UserBlockedEvent) error {
	p.record("user.blocked", event.UserID, event)
	return nil
}

func (p *stubEventPublisher) PublishUserUnblocked(_ context.Context, event domain.UserUnblockedEvent) error {
	p.record("user.unblocked", event.UserID, event)
	return nil
}

func (p *stubEventPublisher) PublishMessageDeleted(_ context.Context, event domain.MessageDeletedEvent) error {
	p.record("chat.message.deleted", event.RequestedBy, event)
	return nil
}
